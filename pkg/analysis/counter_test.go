package analysis

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCounterTop(t *testing.T) {
	c := Count([]string{"b", "a", "c", "a", "b", "a"})
	require.Equal(t, 6, c.Total())
	require.Equal(t, []Entry{{Text: "a", Count: 3}, {Text: "b", Count: 2}}, c.Top(2))
	require.Equal(t, []Entry{{Text: "a", Count: 3}, {Text: "b", Count: 2}, {Text: "c", Count: 1}}, c.Top(0))
	require.Empty(t, Count(nil).Top(10))
}

func TestMethods(t *testing.T) {
	texts := []string{
		`m_230660_0A:n(Lnet/minecraft/core/BlockPos;)V net.minecraft.world.level.redstone.CollectingNeighborUpdater`,
		"net.minecraft.world.level.redstone.CollectingNeighborUpdater",
		"traben.flowing_fluids.FFFluidUtils$lambda",
		"a.b",
		"nomethod",
	}
	c := Methods(texts, 10)
	require.Equal(t, []Entry{
		{Text: "net.minecraft.world.level.redstone.CollectingNeighborUpdater", Count: 2},
		{Text: "traben.flowing_fluids.FFFluidUtils$lambda", Count: 1},
	}, c.Top(0))

	require.Equal(t, []string{"a.b"}, MethodNames("x a.b y"))
}

func TestModMethods(t *testing.T) {
	c := ModMethods([]string{
		"flowingfluidsfixes.FluidProcessingMixin flowingfluidsfixes.ObjectPool",
		"xflowingfluidsfixes.ObjectPool",
	}, "flowingfluidsfixes")
	require.Equal(t, []Entry{
		{Text: "flowingfluidsfixes.ObjectPool", Count: 2},
		{Text: "flowingfluidsfixes.FluidProcessingMixin", Count: 1},
	}, c.Top(0))
}
