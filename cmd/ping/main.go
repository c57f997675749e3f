package main

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/wirecall/wirecall/envelope"
	"github.com/wirecall/wirecall/internal/ping"
	"github.com/wirecall/wirecall/wire"
)

type options struct {
	addr    string
	count   int
	message string
	format  string
	oneway  bool
	timeout time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:          "ping",
		Short:        "Send framed ping calls to a pingd server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "127.0.0.1:9797", "server address")
	cmd.Flags().IntVar(&opts.count, "count", 1, "number of messages to send")
	cmd.Flags().StringVar(&opts.message, "message", "hello", "message to carry in the payload")
	cmd.Flags().StringVar(&opts.format, "format", "json", "payload format: json or msgpack")
	cmd.Flags().BoolVar(&opts.oneway, "oneway", false, "send oneway notifications instead of calls")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 5*time.Second, "per-message timeout")

	return cmd
}

func run(opts options) error {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	format, err := ping.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	conn, err := net.DialTimeout("tcp", opts.addr, opts.timeout)
	if err != nil {
		return fmt.Errorf("dial %s: %w", opts.addr, err)
	}
	defer conn.Close()

	framer := wire.NewFramer(conn)
	codec := wire.NewCodec()

	payload, err := ping.ArgsSerde(format).Serialize(&ping.Args{Message: opts.message})
	if err != nil {
		return err
	}

	for seq := int32(1); seq <= int32(opts.count); seq++ {
		if opts.oneway {
			if err := framer.WriteMessage(codec, envelope.OneWay(ping.MethodNotify, seq, payload)); err != nil {
				return err
			}
			log.Info().Int32("seqid", seq).Msg("notification sent")
			continue
		}

		start := time.Now()
		if err := framer.WriteMessage(codec, envelope.Call(ping.MethodPing, seq, payload)); err != nil {
			return err
		}

		_ = conn.SetReadDeadline(time.Now().Add(opts.timeout))
		reply, err := framer.ReadMessage(codec)
		if err != nil {
			return fmt.Errorf("read reply: %w", err)
		}

		switch reply.Kind() {
		case envelope.KindReply:
			if reply.SeqID() != seq {
				return fmt.Errorf("seqid mismatch: sent %d, got %d", seq, reply.SeqID())
			}

			result, err := ping.ResultSerde(format).Deserialize(reply.Payload())
			if err != nil {
				return err
			}

			log.Info().
				Int32("seqid", seq).
				Str("message", result.Message).
				Dur("rtt", time.Since(start)).
				Msg("reply")

		case envelope.KindException:
			fault, err := ping.FaultSerde(format).Deserialize(reply.Payload())
			if err != nil {
				return fmt.Errorf("undecodable exception payload: %w", err)
			}
			return fmt.Errorf("server fault %s: %s", fault.Code, fault.Message)

		default:
			return fmt.Errorf("unexpected message %s", reply)
		}
	}

	return nil
}
