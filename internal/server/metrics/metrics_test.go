package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-theft-craft/oreveins/internal/server/world/block"
	"github.com/go-theft-craft/oreveins/internal/server/world/gen"
)

func TestObserverCounters(t *testing.T) {
	m := New(nil)

	m.VeinPlaced(gen.BlockPos{0, -30, 0}, block.CopperOre.DefaultState())
	m.VeinPlaced(gen.BlockPos{0, -31, 0}, block.CopperOre.DefaultState())
	m.VeinPlaced(gen.BlockPos{0, -32, 0}, block.Granite.DefaultState())
	m.ChunkDone(gen.ChunkPos{}, gen.RouterStats{Hits: 10, Misses: 4})
	m.ChunkDone(gen.ChunkPos{X: 1}, gen.RouterStats{Hits: 2, Misses: 1})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.veinBlocks.WithLabelValues(block.CopperOre.Name())))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.veinBlocks.WithLabelValues(block.Granite.Name())))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.chunks))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.cacheHits))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.cacheMisses))
}

func TestCommandCounter(t *testing.T) {
	m := New(nil)
	m.CommandDispatched("transfer", nil)
	m.CommandDispatched("transfer", nil)
	m.CommandDispatched("transfer", errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.commands.WithLabelValues("transfer", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.commands.WithLabelValues("transfer", "error")))
}

func TestHandlerServesRegistry(t *testing.T) {
	m := New(func() int { return 3 })
	m.CommandDispatched("seed", nil)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := string(body)
	assert.True(t, strings.Contains(out, "oreveins_players_online 3"), out)
	assert.True(t, strings.Contains(out, `oreveins_commands_total{command="seed",result="ok"} 1`), out)
}

func TestRegistriesAreIndependent(t *testing.T) {
	a, b := New(nil), New(nil)
	a.CommandDispatched("list", nil)
	assert.Equal(t, 0.0, testutil.ToFloat64(b.commands.WithLabelValues("list", "ok")))
}
