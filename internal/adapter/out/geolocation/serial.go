package geolocation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"geonotes/pkg/coords"

	"go.bug.st/serial"
)

// DefaultBaudRate is the usual rate of NMEA 0183 GPS receivers.
const DefaultBaudRate = 9600

type SerialConfig struct {
	// Port is the serial device path (e.g., "/dev/ttyACM0" or "COM4").
	Port     string
	BaudRate int
	Logger   *slog.Logger
}

// Serial reads the position from a GPS receiver speaking NMEA over a serial
// port. The port is opened for each lookup and closed when it ends.
type Serial struct {
	cfg  SerialConfig
	log  *slog.Logger
	open func(name string, mode *serial.Mode) (io.ReadCloser, error)
}

func NewSerial(cfg SerialConfig) *Serial {
	if cfg.BaudRate == 0 {
		cfg.BaudRate = DefaultBaudRate
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Serial{
		cfg: cfg,
		log: cfg.Logger.WithGroup("gps"),
		open: func(name string, mode *serial.Mode) (io.ReadCloser, error) {
			return serial.Open(name, mode)
		},
	}
}

func (s *Serial) Locate(ctx context.Context) (coords.Coordinate, error) {
	if s.cfg.Port == "" {
		return coords.Coordinate{}, fmt.Errorf("%w: serial port is not configured", ErrUnsupported)
	}

	port, err := s.open(s.cfg.Port, &serial.Mode{BaudRate: s.cfg.BaudRate})
	if err != nil {
		var perr *serial.PortError
		if errors.As(err, &perr) && perr.Code() == serial.PortNotFound {
			return coords.Coordinate{}, fmt.Errorf("%w: %v", ErrUnsupported, err)
		}
		return coords.Coordinate{}, fmt.Errorf("opening serial port: %w", err)
	}

	type result struct {
		pos coords.Coordinate
		err error
	}
	done := make(chan result, 1)
	go func() {
		pos, err := ReadFix(ctx, port)
		done <- result{pos: pos, err: err}
	}()

	select {
	case r := <-done:
		_ = port.Close()
		if r.err != nil {
			return coords.Coordinate{}, r.err
		}
		s.log.Debug("gps fix", "port", s.cfg.Port, "position", coords.Format(r.pos))
		return r.pos, nil

	case <-ctx.Done():
		// closing the port unblocks the pending read
		_ = port.Close()
		<-done
		return coords.Coordinate{}, ctx.Err()
	}
}
