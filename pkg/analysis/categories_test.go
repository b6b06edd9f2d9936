package analysis

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCategorize(t *testing.T) {
	texts := []string{
		"net.minecraft.world.level.material.FlowingFluid",
		"traben.flowing_fluids.FFFluidUtils",
		"net.minecraft.core.BlockPos",
		"net.minecraft.world.level.block.entity.BlockEntity", // block wins over entity
		"net.minecraft.world.entity.monster.Zombie",
		"net.minecraft.server.level.ChunkMap",
		"net.minecraft.world.level.redstone.CollectingNeighborUpdater",
		"net.minecraft.server.level.ThreadedLevelLightEngine",
		"java.util.concurrent.ConcurrentHashMap",
	}
	cats := Categorize(texts, DefaultRules().Categories)
	require.Len(t, cats, 6)

	totals := map[string]int{}
	for _, c := range cats {
		totals[c.Name] = c.Total()
	}
	require.Equal(t, map[string]int{
		"fluid":    2,
		"block":    2,
		"entity":   1,
		"chunk":    1,
		"neighbor": 1,
		"lighting": 1,
	}, totals)

	block, ok := Lookup(cats, "block")
	require.True(t, ok)
	require.Equal(t, 1, block.Counter["net.minecraft.world.level.block.entity.BlockEntity"])

	_, ok = Lookup(cats, "missing")
	require.False(t, ok)
}

func TestKeywords(t *testing.T) {
	texts := []string{"ScheduledTick", "tick", "LevelTicks", "MSPT 50ms"}

	require.Equal(t, []Entry{
		{Text: "tick", Count: 3},
		{Text: "mspt", Count: 1},
	}, Keywords(texts, []string{"tick", "mspt", "absent", "tick"}, true))

	require.Equal(t, []Entry{
		{Text: "Tick", Count: 2},
	}, Keywords(texts, []string{"Tick", "mspt"}, false))
}

func TestFilter(t *testing.T) {
	texts := []string{"Xmx92G", "java.lang.Thread", "other"}
	require.Equal(t, []string{"Xmx92G", "java.lang.Thread"}, Filter(texts, []string{"xmx", "JAVA"}, true))
	require.Equal(t, []string{"Xmx92G"}, Filter(texts, []string{"Xmx", "JAVA"}, false))
}
