// Package telemetry ships per-frame ship statistics to InfluxDB. It sits
// beside the HUD and sees the same frames.
package telemetry

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"

	"BridgeSim/internal/game"
)

const measurement = "bridge_frame"

type Config struct {
	URL        string
	Token      string
	Org        string
	Bucket     string
	Every      int    // write one point per this many frames
	BackupPath string // gzip line-protocol file used when the server is unreachable
}

// PointWriter is the slice of influxdb2_api.WriteAPI the sink needs.
type PointWriter interface {
	WritePoint(p *influxdb2_write.Point)
}

// lineBackup writes points as line protocol to a compressed file.
type lineBackup struct {
	gz  *gzip.Writer
	f   io.Closer
	log zerolog.Logger
}

func (b *lineBackup) WritePoint(p *influxdb2_write.Point) {
	line := influxdb2_write.PointToLineProtocol(p, time.Nanosecond)
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	if _, err := b.gz.Write([]byte(line)); err != nil {
		b.log.Error().Err(err).Msg("backup write failed")
	}
}

func (b *lineBackup) Close() error {
	return errors.Join(b.gz.Close(), b.f.Close())
}

// Sink implements game.HUD by writing sampled frames as points.
type Sink struct {
	client influxdb2.Client
	api    influxdb2_api.WriteAPI
	w      PointWriter
	backup *lineBackup
	every  uint64
	now    func() time.Time
	log    zerolog.Logger
}

func NewSink(w PointWriter, every int, logger zerolog.Logger) *Sink {
	if every < 1 {
		every = 1
	}
	return &Sink{
		w:     w,
		every: uint64(every),
		now:   time.Now,
		log:   logger.With().Str("component", "telemetry").Logger(),
	}
}

// Connect opens an InfluxDB client. If the server does not answer a ping
// and a backup path is configured, points go to the backup file instead.
func Connect(ctx context.Context, cfg Config, logger zerolog.Logger) (*Sink, error) {
	client := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(500).
			SetFlushInterval(1000))

	running, err := client.Ping(ctx)
	if err != nil || !running {
		client.Close()
		if cfg.BackupPath == "" {
			return nil, fmt.Errorf("influx ping %s: %w", cfg.URL, errors.Join(err, errors.New("server not running")))
		}
		f, ferr := os.OpenFile(cfg.BackupPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if ferr != nil {
			return nil, fmt.Errorf("open influx backup: %w", ferr)
		}
		s := NewSink(nil, cfg.Every, logger)
		s.backup = &lineBackup{gz: gzip.NewWriter(f), f: f, log: s.log}
		s.w = s.backup
		s.log.Warn().Str("url", cfg.URL).Str("backupPath", cfg.BackupPath).Msg("influx unreachable, writing backup file")
		return s, nil
	}

	api := client.WriteAPI(cfg.Org, cfg.Bucket)
	s := NewSink(api, cfg.Every, logger)
	s.client, s.api = client, api
	go func() {
		for werr := range api.Errors() {
			s.log.Error().Err(werr).Str("bucket", cfg.Bucket).Msg("influx write failed")
		}
	}()
	s.log.Info().Str("url", cfg.URL).Str("bucket", cfg.Bucket).Msg("influx connected")
	return s, nil
}

// FramePoint builds the point for one frame.
func FramePoint(frame uint64, dt time.Duration, ship game.ShipView, alert game.AlertLevel, at time.Time) *influxdb2_write.Point {
	return influxdb2.NewPoint(measurement,
		map[string]string{"alert": alert.String()},
		map[string]interface{}{
			"frame":    int64(frame),
			"dt_ms":    float64(dt) / float64(time.Millisecond),
			"hull":     ship.Hull,
			"sif":      ship.SIF.Strength,
			"output":   ship.Boosters.Output,
			"speed":    ship.Speed(),
			"complete": ship.MissionComplete,
		},
		at)
}

func (s *Sink) Render(frame uint64, dt time.Duration, ship game.ShipView, alert game.AlertLevel) {
	if s.w == nil || frame%s.every != 0 {
		return
	}
	s.w.WritePoint(FramePoint(frame, dt, ship, alert, s.now()))
}

// Close flushes pending points and releases the client.
func (s *Sink) Close() error {
	if s.api != nil {
		s.api.Flush()
	}
	if s.client != nil {
		s.client.Close()
	}
	if s.backup != nil {
		return s.backup.Close()
	}
	return nil
}
