package planner

import "fmt"

// Metro Bilbao network.
//   L1: Plentzia <-> Etxebarri
//   L2: Kabiezes <-> Basauri
//   L3: Matiko <-> Kukullaga
// L1 and L2 share the central trunk; L3 meets the other two at
// Zazpikaleak/Casco Viejo and Bolueta.

// TransferOutcome is the result of a transfer-station lookup. Same-line
// trips and unresolvable lookups are distinct outcomes that callers must
// branch on; neither is an error.
type TransferOutcome int

const (
	// TransferNotNeeded means both stations sit on the same line.
	TransferNotNeeded TransferOutcome = iota
	// TransferAt means a designated interchange station was resolved.
	TransferAt
	// TransferUnknown means a station is on no known line, or no rule
	// exists for the line pair.
	TransferUnknown
)

// linePair is an unordered pair of line codes, normalized so A < B.
type linePair struct {
	A, B string
}

func pairOf(a, b string) linePair {
	if a > b {
		a, b = b, a
	}
	return linePair{A: a, B: b}
}

// Network is the static Metro Bilbao topology: ordered station sequences
// per line, designated interchanges per line pair, and display names.
// Built once at startup and shared read-only across requests.
type Network struct {
	lines map[string][]string
	// order fixes the membership-scan order so that a station appearing
	// on several lines always resolves to the lowest-numbered one.
	order []string
	rules map[linePair]string
	names map[string]string
}

// DefaultNetwork returns the current Metro Bilbao topology.
func DefaultNetwork() *Network {
	return &Network{
		lines: map[string][]string{
			"L1": {
				"PLE", "SOP", "LAR", "BER", "IBR", "BID", "ALG", "AIB",
				"NEG", "GOB", "ARE", "LAM", "LEI", "AST", "ERA", "LUT",
				"DEU", "SAR", "SMM", "IND", "MOY", "ABN", "CAD", "BOL",
				"ETX",
			},
			"L2": {
				"KAB", "STZ", "PEN", "POR", "ABT", "SES", "URB", "BAG",
				"BAR", "ANS", "GUR", "BAS", "ARZ", "ETX", "BOL", "CAD",
				"ABN", "MOY", "SMM", "IND",
			},
			"L3": {"MAT", "URI", "ZUR", "TXU", "OTX", "KUK", "BOL", "CAD"},
		},
		order: []string{"L1", "L2", "L3"},
		rules: map[linePair]string{
			// L1/L2 split after the shared trunk; San Mames is the
			// designated change point between the branches.
			pairOf("L1", "L2"): "SMM",
			// L3 connects to the rest of the network at Casco Viejo.
			pairOf("L1", "L3"): "CAD",
			pairOf("L2", "L3"): "CAD",
		},
		names: map[string]string{
			"PLE": "Plentzia",
			"SOP": "Sopela",
			"LAR": "Larrabasterra",
			"BER": "Berango",
			"IBR": "Ibarbengoa",
			"BID": "Bidezabal",
			"ALG": "Algorta",
			"AIB": "Aiboa",
			"NEG": "Neguri",
			"GOB": "Gobela",
			"ARE": "Areeta",
			"LAM": "Lamiako",
			"LEI": "Leioa",
			"AST": "Astrabudua",
			"ERA": "Erandio",
			"LUT": "Lutxana",
			"DEU": "Deustu",
			"SAR": "Sarriko",
			"SMM": "Santimami/San Mames",
			"IND": "Indautxu",
			"MOY": "Moyua",
			"ABN": "Abando",
			"CAD": "Zazpikaleak/Casco Viejo",
			"BOL": "Bolueta",
			"ETX": "Etxebarri",
			"KAB": "Kabiezes",
			"STZ": "Santurtzi",
			"PEN": "Penota",
			"POR": "Portugalete",
			"ABT": "Abatxolo",
			"SES": "Sestao",
			"URB": "Urbinaga",
			"BAG": "Bagatza",
			"BAR": "Barakaldo",
			"ANS": "Ansio",
			"GUR": "Gurutzeta/Cruces",
			"BAS": "Basauri",
			"ARZ": "Ariz",
			"MAT": "Matiko",
			"URI": "Uribarri",
			"ZUR": "Zurbaranbarri",
			"TXU": "Txurdinaga",
			"OTX": "Otxarkoaga",
			"KUK": "Kukullaga",
		},
	}
}

// Validate checks the structural invariants of the topology: no
// duplicate stations within a line, and every transfer rule's interchange
// belongs to both lines of its pair. Run once at startup.
func (n *Network) Validate() error {
	for _, line := range n.order {
		seen := make(map[string]bool, len(n.lines[line]))
		for _, code := range n.lines[line] {
			if seen[code] {
				return fmt.Errorf("line %s lists station %s twice", line, code)
			}
			seen[code] = true
		}
	}
	for pair, station := range n.rules {
		if !n.lineContains(pair.A, station) {
			return fmt.Errorf("transfer station %s for %s/%s is not on line %s", station, pair.A, pair.B, pair.A)
		}
		if !n.lineContains(pair.B, station) {
			return fmt.Errorf("transfer station %s for %s/%s is not on line %s", station, pair.A, pair.B, pair.B)
		}
	}
	return nil
}

func (n *Network) lineContains(line, code string) bool {
	for _, s := range n.lines[line] {
		if s == code {
			return true
		}
	}
	return false
}

// LinesFor returns every line a station belongs to, in network order.
// Interchange stations appear on more than one line.
func (n *Network) LinesFor(code string) []string {
	var out []string
	for _, line := range n.order {
		if n.lineContains(line, code) {
			out = append(out, line)
		}
	}
	return out
}

// LineFor returns the line a station belongs to. For interchange
// stations on several lines the lowest-numbered line wins; the scan
// order makes that deterministic.
func (n *Network) LineFor(code string) (string, bool) {
	for _, line := range n.order {
		if n.lineContains(line, code) {
			return line, true
		}
	}
	return "", false
}

// ResolveTransferStation determines whether travelling between two
// stations requires a line change, and if so, at which interchange.
//
// Outcomes:
//   - TransferNotNeeded: both stations are on the same line.
//   - TransferAt: the returned station is the designated interchange.
//   - TransferUnknown: a station is on no known line, or the line pair
//     has no designated interchange.
func (n *Network) ResolveTransferStation(origin, destination string) (string, TransferOutcome) {
	originLines := n.LinesFor(origin)
	destLines := n.LinesFor(destination)
	if len(originLines) == 0 || len(destLines) == 0 {
		return "", TransferUnknown
	}

	// Any shared line means no transfer, regardless of which line the
	// lowest-numbered tie-break would pick.
	for _, ol := range originLines {
		for _, dl := range destLines {
			if ol == dl {
				return "", TransferNotNeeded
			}
		}
	}

	station, ok := n.rules[pairOf(originLines[0], destLines[0])]
	if !ok {
		return "", TransferUnknown
	}
	return station, TransferAt
}

// StationName returns the display name for a station code, falling back
// to the code itself when the station is not in the static table.
func (n *Network) StationName(code string) string {
	if name, ok := n.names[code]; ok {
		return name
	}
	return code
}

// Stations returns a copy of the full station code -> name table.
func (n *Network) Stations() map[string]string {
	out := make(map[string]string, len(n.names))
	for code, name := range n.names {
		out[code] = name
	}
	return out
}

// LineCodes returns the network's line codes in order.
func (n *Network) LineCodes() []string {
	out := make([]string, len(n.order))
	copy(out, n.order)
	return out
}
