package geolocation

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"geonotes/pkg/coords"
)

var (
	ErrChecksum        = errors.New("nmea checksum mismatch")
	ErrMalformedNMEA   = errors.New("malformed nmea sentence")
	ErrUnsupportedNMEA = errors.New("unsupported nmea sentence")
)

// ParseNMEA extracts a position from a GGA or RMC sentence of any talker.
// Sentences without a valid fix return ErrNoFix.
func ParseNMEA(line string) (coords.Coordinate, error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "$") {
		return coords.Coordinate{}, ErrMalformedNMEA
	}

	body, sum, hasSum := strings.Cut(line[1:], "*")
	if hasSum {
		want, err := strconv.ParseUint(sum, 16, 8)
		if err != nil {
			return coords.Coordinate{}, fmt.Errorf("%w: checksum %q", ErrMalformedNMEA, sum)
		}
		if uint64(checksum(body)) != want {
			return coords.Coordinate{}, ErrChecksum
		}
	}

	fields := strings.Split(body, ",")
	if len(fields[0]) != 5 {
		return coords.Coordinate{}, fmt.Errorf("%w: address %q", ErrMalformedNMEA, fields[0])
	}

	switch fields[0][2:] {
	case "GGA":
		if len(fields) < 7 {
			return coords.Coordinate{}, ErrMalformedNMEA
		}
		if q, err := strconv.Atoi(fields[6]); err != nil || q == 0 {
			return coords.Coordinate{}, ErrNoFix
		}
		return nmeaPosition(fields[2], fields[3], fields[4], fields[5])

	case "RMC":
		if len(fields) < 7 {
			return coords.Coordinate{}, ErrMalformedNMEA
		}
		if fields[2] != "A" {
			return coords.Coordinate{}, ErrNoFix
		}
		return nmeaPosition(fields[3], fields[4], fields[5], fields[6])

	default:
		return coords.Coordinate{}, ErrUnsupportedNMEA
	}
}

// ReadFix scans NMEA sentences from r until one carries a fix.
func ReadFix(ctx context.Context, r io.Reader) (coords.Coordinate, error) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return coords.Coordinate{}, err
		}
		pos, err := ParseNMEA(sc.Text())
		if err == nil {
			return pos, nil
		}
	}
	if err := sc.Err(); err != nil {
		return coords.Coordinate{}, fmt.Errorf("reading nmea: %w", err)
	}
	return coords.Coordinate{}, ErrNoFix
}

func checksum(s string) byte {
	var c byte
	for i := 0; i < len(s); i++ {
		c ^= s[i]
	}
	return c
}

func nmeaPosition(lat, ns, lon, ew string) (coords.Coordinate, error) {
	if lat == "" || lon == "" {
		return coords.Coordinate{}, ErrNoFix
	}
	la, err := nmeaDegrees(lat)
	if err != nil {
		return coords.Coordinate{}, err
	}
	lo, err := nmeaDegrees(lon)
	if err != nil {
		return coords.Coordinate{}, err
	}

	switch ns {
	case "N":
	case "S":
		la = -la
	default:
		return coords.Coordinate{}, fmt.Errorf("%w: hemisphere %q", ErrMalformedNMEA, ns)
	}
	switch ew {
	case "E":
	case "W":
		lo = -lo
	default:
		return coords.Coordinate{}, fmt.Errorf("%w: hemisphere %q", ErrMalformedNMEA, ew)
	}

	return coords.New(la, lo)
}

// nmeaDegrees converts (d)ddmm.mmmm to decimal degrees.
func nmeaDegrees(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: angle %q", ErrMalformedNMEA, s)
	}
	deg := math.Floor(v / 100)
	return deg + (v-deg*100)/60, nil
}
