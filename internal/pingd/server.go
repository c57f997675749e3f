// Package pingd implements the example ping server: one TCP listener,
// one framed envelope stream per connection.
package pingd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/rs/zerolog"

	"github.com/wirecall/wirecall/envelope"
	"github.com/wirecall/wirecall/internal/ping"
	"github.com/wirecall/wirecall/wire"
)

type Config struct {
	Listen        string
	PayloadFormat ping.Format
	MaxFrameBytes uint32
	ReadTimeout   time.Duration
}

func DefaultConfig() Config {
	return Config{
		Listen:        "127.0.0.1:9797",
		PayloadFormat: ping.FormatJSON,
		MaxFrameBytes: wire.DefaultMaxFrameSize,
		ReadTimeout:   0,
	}
}

type Service struct {
	cfg Config
	log zerolog.Logger
	ln  net.Listener
}

func NewService(cfg Config, log zerolog.Logger) *Service {
	return &Service{
		cfg: cfg,
		log: log,
	}
}

func (s *Service) Listen() error {
	ln, err := net.Listen("tcp", s.cfg.Listen)
	if err != nil {
		return fmt.Errorf("pingd: listen on %s: %w", s.cfg.Listen, err)
	}
	s.ln = ln
	s.log.Info().Str("addr", ln.Addr().String()).Msg("listening")
	return nil
}

// Addr is the bound listener address; valid after Listen.
func (s *Service) Addr() net.Addr {
	return s.ln.Addr()
}

func (s *Service) Close() error {
	if s.ln == nil {
		return nil
	}
	return s.ln.Close()
}

// Serve accepts connections until the listener closes.
func (s *Service) Serve() error {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("pingd: accept: %w", err)
		}
		go s.handleConn(conn)
	}
}

// Run listens and serves until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		_ = s.Close()
	}()

	return s.Serve()
}

func (s *Service) handleConn(conn net.Conn) {
	defer conn.Close()

	log := s.log.With().Str("remote", conn.RemoteAddr().String()).Logger()
	log.Debug().Msg("connection opened")

	framer := wire.NewFramer(conn, wire.WithMaxFrameSize(s.cfg.MaxFrameBytes))
	codec := wire.NewCodec()

	for {
		if s.cfg.ReadTimeout > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
		}

		env, err := framer.ReadMessage(codec)
		if err != nil {
			if errors.Is(err, io.EOF) {
				log.Debug().Msg("connection closed by peer")
			} else {
				log.Warn().Err(err).Msg("read message")
			}
			return
		}

		switch env.Kind() {
		case envelope.KindCall:
			if err := s.handleCall(framer, codec, env); err != nil {
				log.Warn().Err(err).Stringer("envelope", env).Msg("handle call")
				return
			}
		case envelope.KindOneWay:
			s.handleNotify(log, env)
		default:
			// Servers only consume requests; anything else is noise.
			log.Warn().Stringer("envelope", env).Msg("ignoring unexpected message kind")
		}
	}
}

func (s *Service) handleCall(framer *wire.Framer, codec *wire.Codec, env envelope.Envelope) error {
	if env.Name() != ping.MethodPing {
		return s.writeFault(framer, codec, env, ping.FaultUnknownMethod,
			fmt.Sprintf("no such method %q", env.Name()))
	}

	args, err := ping.ArgsSerde(s.cfg.PayloadFormat).Deserialize(env.Payload())
	if err != nil {
		return s.writeFault(framer, codec, env, ping.FaultBadPayload, err.Error())
	}

	msg := args.Message
	if msg == "" {
		msg = "pong"
	}

	payload, err := ping.ResultSerde(s.cfg.PayloadFormat).Serialize(&ping.Result{Message: msg})
	if err != nil {
		return fmt.Errorf("serialize result: %w", err)
	}

	// The reply must echo the request's seqid unchanged.
	return framer.WriteMessage(codec, envelope.Reply(env.Name(), env.SeqID(), payload))
}

func (s *Service) handleNotify(log zerolog.Logger, env envelope.Envelope) {
	// Oneway: never reply, even for unknown methods.
	log.Info().
		Str("method", env.Name()).
		Int32("seqid", env.SeqID()).
		Int("payload_bytes", len(env.Payload())).
		Msg("notification received")
}

func (s *Service) writeFault(framer *wire.Framer, codec *wire.Codec, env envelope.Envelope, code, msg string) error {
	payload, err := ping.FaultSerde(s.cfg.PayloadFormat).Serialize(&ping.Fault{
		Code:    code,
		Message: msg,
	})
	if err != nil {
		return fmt.Errorf("serialize fault: %w", err)
	}

	return framer.WriteMessage(codec, envelope.Exception(env.Name(), env.SeqID(), payload))
}
