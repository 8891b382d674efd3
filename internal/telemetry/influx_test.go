package telemetry

import (
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BridgeSim/internal/game"
)

type recorder struct{ points []*influxdb2_write.Point }

func (r *recorder) WritePoint(p *influxdb2_write.Point) { r.points = append(r.points, p) }

func TestFramePointLineProtocol(t *testing.T) {
	ship := game.NewShip()
	at := time.Unix(1700000000, 0)
	p := FramePoint(12, 16*time.Millisecond, ship.Snapshot(), game.AlertRed, at)

	line := influxdb2_write.PointToLineProtocol(p, time.Nanosecond)
	assert.Contains(t, line, "bridge_frame,alert=red ")
	assert.Contains(t, line, "frame=12i")
	assert.Contains(t, line, "hull=100")
	assert.Contains(t, line, "dt_ms=16")
	assert.Contains(t, line, "complete=false")
	assert.Contains(t, line, " 1700000000000000000")
}

func TestSinkSamplesFrames(t *testing.T) {
	rec := &recorder{}
	s := NewSink(rec, 5, zerolog.Nop())
	view := game.NewShip().Snapshot()
	for f := uint64(1); f <= 12; f++ {
		s.Render(f, time.Millisecond, view, game.AlertNone)
	}
	assert.Len(t, rec.points, 2)
	assert.NoError(t, s.Close())
}

func TestSinkOnGameHUDFanout(t *testing.T) {
	rec := &recorder{}
	s := NewSink(rec, 1, zerolog.Nop())
	g := game.New(game.Options{Ship: game.NewShip(), HUD: s})
	for i := 0; i < 3; i++ {
		require.NoError(t, g.Tick())
	}
	assert.Len(t, rec.points, 3)
}

func TestConnectFallsBackToBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frames.lp.gz")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	s, err := Connect(ctx, Config{URL: "http://127.0.0.1:1", Every: 1, BackupPath: path}, zerolog.Nop())
	require.NoError(t, err)
	s.Render(1, time.Millisecond, game.NewShip().Snapshot(), game.AlertYellow)
	require.NoError(t, s.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	data, err := io.ReadAll(gz)
	require.NoError(t, err)
	assert.Contains(t, string(data), "bridge_frame,alert=yellow")
}

func TestConnectWithoutBackupFails(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := Connect(ctx, Config{URL: "http://127.0.0.1:1"}, zerolog.Nop())
	assert.Error(t, err)
}
