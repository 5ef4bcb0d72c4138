// Package harness runs zone scenarios as executable tests.
//
// A scenario is a YAML file holding a zone script and assertions about the
// zones it produces:
//
//	name: interpolation
//	description: "interpolant keeps only the bounds that separate A from B"
//	zones:
//	  - name: a
//	    clocks: [x]
//	    init: top
//	    steps: ["and x >= 1", "and x <= 2"]
//	  - name: b
//	    clocks: [x]
//	    init: top
//	    steps: ["and x >= 5"]
//	  - name: w
//	    combine: interpolant
//	    of: [a, b]
//	assertions:
//	  - type: constraints
//	    zone: w
//	    constraints: ["x >= 0", "x <= 2"]
//	  - type: relation
//	    zone: w
//	    other: a
//	    relation: SUPERSET
//
// Each run uses a fixed run ID so its trace can be compared byte for byte
// against a golden file (see RunWithGolden).
package harness
