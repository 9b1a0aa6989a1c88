package screening

// Evidence-source labels of the external systems.
const (
	SourceRegistry  = "OpenCorporates"
	SourceOwnership = "SEC EDGAR"
	SourceNews      = "NewsAPI"
)

// labelSet keeps labels in first-observed order without repeats.
type labelSet struct {
	seen  map[string]struct{}
	order []string
}

func newLabelSet() *labelSet {
	return &labelSet{seen: make(map[string]struct{})}
}

func (l *labelSet) add(label string) {
	if label == "" {
		return
	}
	if _, ok := l.seen[label]; ok {
		return
	}
	l.seen[label] = struct{}{}
	l.order = append(l.order, label)
}

func (l *labelSet) list() []string {
	out := make([]string, len(l.order))
	copy(out, l.order)
	return out
}

// evidenceSources derives the bundle's source labels.
func evidenceSources(b EvidenceBundle) []string {
	labels := newLabelSet()
	labels.add(b.Payer.SanctionsLabel())
	labels.add(b.Receiver.SanctionsLabel())
	if b.Payer.RegistryType != "" || b.Receiver.RegistryType != "" {
		labels.add(SourceRegistry)
	}
	if len(b.Payer.Shareholders) > 0 || len(b.Receiver.Shareholders) > 0 {
		labels.add(SourceOwnership)
	}
	if b.Payer.HasNegativeNews() || b.Receiver.HasNegativeNews() {
		labels.add(SourceNews)
	}
	for _, side := range [][]EntityEvidence{b.PayerShareholders, b.ReceiverShareholders} {
		for _, sh := range side {
			labels.add(sh.SanctionsLabel())
			if sh.HasNegativeNews() {
				labels.add(SourceNews)
			}
		}
	}
	return labels.list()
}
