package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyFilters(t *testing.T) {
	view := SalesView(dashboardFixture())

	assert.Same(t, view, ApplyFilters(view, Filters{}))

	north := ApplyFilters(view, Filters{}.Add(DimRegion, "NORTH"))
	assert.Equal(t, 3, north.Len())

	orSet := ApplyFilters(view, Filters{}.Add(DimRegion, "north", "east"))
	assert.Equal(t, 4, orSet.Len())

	and := ApplyFilters(view, Filters{}.Add(DimRegion, "north").Add(DimProduct, "gadget"))
	assert.Equal(t, 1, and.Len())
	assert.Equal(t, "Gadget", and.Dimension(0, DimProduct))

	none := ApplyFilters(view, Filters{}.Add(DimSalesRep, "Nobody"))
	assert.Equal(t, 0, none.Len())
}

func TestFiltersLabel(t *testing.T) {
	assert.Equal(t, "All records", Filters{}.Label())
	f := Filters{}.Add(DimSalesRep, "Asha", "Vikram").Add(DimRegion, "North")
	assert.Equal(t, "region=North; sales_rep=Asha, Vikram", f.Label())
	assert.True(t, f.HasFilter(DimRegion))
	assert.False(t, f.HasFilter(DimProduct))
}

func TestFiltersAddLeavesReceiverUntouched(t *testing.T) {
	base := Filters{}.Add(DimRegion, "North")
	wider := base.Add(DimRegion, "South").Add(DimProduct, "Widget")

	assert.Equal(t, []string{"North"}, base.Dimensions[DimRegion])
	assert.False(t, base.HasFilter(DimProduct))
	assert.Equal(t, []string{"North", "South"}, wider.Dimensions[DimRegion])
}
