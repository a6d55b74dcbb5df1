package pacing

// Distribution splits a deck word budget across slide types.
type Distribution struct {
	TotalBudget     int `json:"total_budget"`
	Title           int `json:"title"`
	Summary         int `json:"summary"`
	AuxiliaryCount  int `json:"auxiliary_count"`
	AuxiliaryEach   int `json:"auxiliary_each"`
	AuxiliaryTotal  int `json:"auxiliary_total"`
	ContentSlides   int `json:"content_slides"`
	ContentPerSlide int `json:"content_per_slide"`
	ContentTotal    int `json:"content_total"`
	Allocated       int `json:"allocated"`
	Shortfall       int `json:"shortfall"`
	Overflow        int `json:"overflow"`
}

// OverBudget reports whether the fixed slides alone exceed the budget.
func (d Distribution) OverBudget() bool { return d.Overflow > 0 }

// Distribute allocates total words over slides, of which aux are auxiliary.
// Title, summary and each auxiliary slide get their band targets; the
// remaining slides share what is left, floored per slide. Shortfall is what
// the floor leaves unallocated. When title, summary and auxiliary targets
// already exceed total, content gets nothing and Overflow holds the excess.
func Distribute(total, slides, aux int) Distribution {
	if aux < 0 {
		aux = 0
	}
	d := Distribution{
		TotalBudget:    total,
		Title:          BandFor(SlideTitle).Target,
		Summary:        BandFor(SlideSummary).Target,
		AuxiliaryCount: aux,
		AuxiliaryEach:  BandFor(SlideAuxiliary).Target,
	}
	d.AuxiliaryTotal = d.AuxiliaryEach * aux
	d.ContentSlides = slides - aux - 2
	if d.ContentSlides < 0 {
		d.ContentSlides = 0
	}

	remaining := total - d.Title - d.Summary - d.AuxiliaryTotal
	if d.ContentSlides > 0 && remaining > 0 {
		d.ContentPerSlide = remaining / d.ContentSlides
		d.ContentTotal = d.ContentPerSlide * d.ContentSlides
	}

	d.Allocated = d.Title + d.Summary + d.AuxiliaryTotal + d.ContentTotal
	switch {
	case d.Allocated < total:
		d.Shortfall = total - d.Allocated
	case d.Allocated > total:
		d.Overflow = d.Allocated - total
	}
	return d
}
