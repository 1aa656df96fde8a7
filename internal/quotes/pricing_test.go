package quotes

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestPriceLabourOnly(t *testing.T) {
	got := Price(CostBreakdown{
		Labour:        LabourInput{Hours: 3, Rate: 400},
		MarkupPercent: 30,
	})
	if !almostEqual(got.LabourTotal, 1200) {
		t.Fatalf("labour total = %.2f, want 1200", got.LabourTotal)
	}
	if !almostEqual(got.SubTotal, 1200) {
		t.Fatalf("subtotal = %.2f, want 1200", got.SubTotal)
	}
	if !almostEqual(got.MarkupAmount, 360) {
		t.Fatalf("markup = %.2f, want 360", got.MarkupAmount)
	}
	if !almostEqual(got.RetailPrice, 1560) {
		t.Fatalf("retail = %.2f, want 1560", got.RetailPrice)
	}
}

func TestPriceMaterialVatAndLoss(t *testing.T) {
	got := Price(CostBreakdown{
		Material: &MaterialInput{
			Name:         "9ct yellow gold",
			Weight:       10,
			PricePerUnit: 1200,
			AddVat:       true,
			LossFactor:   1.05,
		},
	})
	// 10g x 1200 = 12000, +15% VAT = 13800, x1.05 loss = 14490
	if !almostEqual(got.MaterialTotal, 14490) {
		t.Fatalf("material total = %.2f, want 14490", got.MaterialTotal)
	}
}

func TestPriceLossFactorBelowOneClamped(t *testing.T) {
	got := Price(CostBreakdown{
		Material: &MaterialInput{Weight: 10, PricePerUnit: 100, LossFactor: 0.5},
	})
	if !almostEqual(got.MaterialTotal, 1000) {
		t.Fatalf("material total = %.2f, want 1000 (loss factor clamped to 1)", got.MaterialTotal)
	}
}

func TestPriceDiamondsAndComponents(t *testing.T) {
	got := Price(CostBreakdown{
		Diamonds: []DiamondLine{
			{CostEach: 2500, Quantity: 2},
			{CostEach: 800, Quantity: 1},
		},
		Components: []ComponentLine{
			{Description: "clasp", CostExVat: 100, AddVat: true},
			{Description: "chain", CostExVat: 250, AddVat: false},
		},
	})
	if !almostEqual(got.DiamondsTotal, 5800) {
		t.Fatalf("diamonds total = %.2f, want 5800", got.DiamondsTotal)
	}
	if !almostEqual(got.ComponentsTotal, 365) {
		t.Fatalf("components total = %.2f, want 365", got.ComponentsTotal)
	}
}

func TestPriceFullBreakdown(t *testing.T) {
	got := Price(CostBreakdown{
		Labour: LabourInput{Hours: 5, Rate: 350},
		Material: &MaterialInput{
			Weight:       8,
			PricePerUnit: 1000,
			AddVat:       false,
			LossFactor:   1,
		},
		Diamonds:   []DiamondLine{{CostEach: 3000, Quantity: 1}},
		Components: []ComponentLine{{CostExVat: 200, AddVat: true}},
		Optional: OptionalCosts{
			Setting:   500,
			Packaging: 150,
			Courier:   100,
		},
		MarkupPercent:       40,
		CostPriceMultiplier: 1.1,
	})
	// 1750 labour + 8000 material + 3000 diamonds + 230 components + 750 optional
	wantSub := 1750.0 + 8000 + 3000 + 230 + 500 + 150 + 100
	if !almostEqual(got.SubTotal, wantSub) {
		t.Fatalf("subtotal = %.2f, want %.2f", got.SubTotal, wantSub)
	}
	if !almostEqual(got.MarkupAmount, wantSub*0.4) {
		t.Fatalf("markup = %.2f, want %.2f", got.MarkupAmount, wantSub*0.4)
	}
	if !almostEqual(got.RetailPrice, wantSub*1.4) {
		t.Fatalf("retail = %.2f, want %.2f", got.RetailPrice, wantSub*1.4)
	}
	if !almostEqual(got.CostPrice, wantSub*1.1) {
		t.Fatalf("cost price = %.2f, want %.2f", got.CostPrice, wantSub*1.1)
	}
}

func TestPriceNegativeInputsClamped(t *testing.T) {
	got := Price(CostBreakdown{
		Labour:        LabourInput{Hours: -2, Rate: 400},
		Diamonds:      []DiamondLine{{CostEach: -100, Quantity: 3}},
		MarkupPercent: -10,
	})
	if got.SubTotal != 0 {
		t.Fatalf("subtotal = %.2f, want 0", got.SubTotal)
	}
	if got.MarkupAmount != 0 {
		t.Fatalf("markup = %.2f, want 0", got.MarkupAmount)
	}
}

func TestPriceItem(t *testing.T) {
	labour, metal, extras, unit, line := priceItem(2, 400, 5, 1500, []Accessory{
		{Name: "box clasp", Price: 250},
		{Name: "safety chain", Price: 90},
	}, 2)
	if !almostEqual(labour, 800) {
		t.Fatalf("labour = %.2f, want 800", labour)
	}
	if !almostEqual(metal, 7500) {
		t.Fatalf("metal = %.2f, want 7500", metal)
	}
	if !almostEqual(extras, 340) {
		t.Fatalf("extras = %.2f, want 340", extras)
	}
	if !almostEqual(unit, 8640) {
		t.Fatalf("unit price = %.2f, want 8640", unit)
	}
	if !almostEqual(line, 17280) {
		t.Fatalf("line total = %.2f, want 17280", line)
	}
}

func TestPriceIsIdempotent(t *testing.T) {
	b := CostBreakdown{
		Labour:        LabourInput{Hours: 4, Rate: 375},
		Material:      &MaterialInput{Weight: 6, PricePerUnit: 950, AddVat: true, LossFactor: 1.1},
		MarkupPercent: 35,
	}
	first := Price(b)
	second := Price(b)
	if first != second {
		t.Fatalf("pricing diverged between runs: %+v vs %+v", first, second)
	}
}
