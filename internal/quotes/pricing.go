package quotes

// Pricing is pure derivation: no I/O, safe to run repeatedly and discard.
// All maths stays in full floating precision; two-decimal formatting is a
// presentation concern owned by whoever displays the numbers.

// vatRate is the jurisdiction's standard VAT rate. Fixed for now; make it
// configurable before reusing this module outside South Africa.
const vatRate = 0.15

// LabourInput describes bench time.
type LabourInput struct {
	Hours float64 `json:"hours"`
	Rate  float64 `json:"rate"`
}

// MaterialInput describes the metal or other base material of a piece.
// Either a catalog selection or a custom named material; pricing treats both
// the same way.
type MaterialInput struct {
	Name         string  `json:"name"`
	Weight       float64 `json:"weight"`
	PricePerUnit float64 `json:"price_per_unit"`
	AddVat       bool    `json:"add_vat"`
	// LossFactor accounts for fabrication wastage. Values below 1 are
	// treated as 1.
	LossFactor float64 `json:"loss_factor"`
}

// DiamondLine is one gemstone position. Size, colour, clarity and cut are
// display attributes only; pricing uses CostEach and Quantity.
type DiamondLine struct {
	SizeMM   float64 `json:"size_mm"`
	Carat    float64 `json:"carat"`
	Colour   string  `json:"colour"`
	Clarity  string  `json:"clarity"`
	Cut      string  `json:"cut"`
	CostEach float64 `json:"cost_each"`
	Quantity float64 `json:"quantity"`
}

// ComponentLine is an extra bought-in component (clasp, chain, finding).
type ComponentLine struct {
	Description string  `json:"description"`
	CostExVat   float64 `json:"cost_ex_vat"`
	AddVat      bool    `json:"add_vat"`
}

// OptionalCosts are flat add-ons applied directly to the subtotal.
type OptionalCosts struct {
	Setting   float64 `json:"setting"`
	Packaging float64 `json:"packaging"`
	Courier   float64 `json:"courier"`
}

// CostBreakdown is the full set of cost inputs a quote page authors. It is
// persisted alongside the quote so pages that favour holistic recomputation
// over line items can round-trip their working.
type CostBreakdown struct {
	Labour              LabourInput     `json:"labour"`
	Material            *MaterialInput  `json:"material,omitempty"`
	Diamonds            []DiamondLine   `json:"diamonds,omitempty"`
	Components          []ComponentLine `json:"components,omitempty"`
	Optional            OptionalCosts   `json:"optional"`
	MarkupPercent       float64         `json:"markup_percent"`
	CostPriceMultiplier float64         `json:"cost_price_multiplier"`
}

// PriceSummary is the derived pricing of a CostBreakdown.
type PriceSummary struct {
	LabourTotal     float64 `json:"labour_total"`
	MaterialTotal   float64 `json:"material_total"`
	DiamondsTotal   float64 `json:"diamonds_total"`
	ComponentsTotal float64 `json:"components_total"`
	SettingCost     float64 `json:"setting_cost"`
	PackagingCost   float64 `json:"packaging_cost"`
	CourierCost     float64 `json:"courier_cost"`
	SubTotal        float64 `json:"sub_total"`
	MarkupAmount    float64 `json:"markup_amount"`
	RetailPrice     float64 `json:"retail_price"`
	CostPrice       float64 `json:"cost_price"`
}

// Price derives the full pricing of a cost breakdown. Missing or negative
// inputs are treated as zero.
func Price(b CostBreakdown) PriceSummary {
	s := PriceSummary{
		LabourTotal:   nonNegative(b.Labour.Hours) * nonNegative(b.Labour.Rate),
		SettingCost:   nonNegative(b.Optional.Setting),
		PackagingCost: nonNegative(b.Optional.Packaging),
		CourierCost:   nonNegative(b.Optional.Courier),
	}

	if b.Material != nil {
		base := nonNegative(b.Material.Weight) * nonNegative(b.Material.PricePerUnit)
		vat := 0.0
		if b.Material.AddVat {
			vat = base * vatRate
		}
		loss := b.Material.LossFactor
		if loss < 1 {
			loss = 1
		}
		s.MaterialTotal = (base + vat) * loss
	}

	for _, d := range b.Diamonds {
		s.DiamondsTotal += nonNegative(d.CostEach) * nonNegative(d.Quantity)
	}

	for _, c := range b.Components {
		cost := nonNegative(c.CostExVat)
		if c.AddVat {
			cost *= 1 + vatRate
		}
		s.ComponentsTotal += cost
	}

	s.SubTotal = s.LabourTotal + s.MaterialTotal + s.DiamondsTotal + s.ComponentsTotal +
		s.SettingCost + s.PackagingCost + s.CourierCost
	s.MarkupAmount = s.SubTotal * nonNegative(b.MarkupPercent) / 100
	s.RetailPrice = s.SubTotal + s.MarkupAmount
	s.CostPrice = s.SubTotal * nonNegative(b.CostPriceMultiplier)
	return s
}

// priceItem derives the stored totals of a single quote line. Accessory
// prices are summed as entered; metal price is whatever was captured on the
// line, never a live rate.
func priceItem(hours, rate, grams, metalPrice float64, accessories []Accessory, quantity int) (labourTotal, metalTotal, extrasTotal, unitPrice, lineTotal float64) {
	labourTotal = nonNegative(hours) * nonNegative(rate)
	metalTotal = nonNegative(grams) * nonNegative(metalPrice)
	for _, a := range accessories {
		extrasTotal += nonNegative(a.Price)
	}
	unitPrice = labourTotal + metalTotal + extrasTotal
	lineTotal = unitPrice * float64(quantity)
	return
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
