// Package io reads and writes mined patterns.
//
// # Formats
//
// Three formats are supported:
//
//   - spmf: one pattern per line, items ascending, followed by its stats:
//
//	1 2 3  #SUP: 2  #MAXLA: 0
//
//   - json: an object with a "patterns" array
//
//	{
//	  "patterns": [
//	    {"items": [1, 2, 3], "support": 2, "bound": 0}
//	  ]
//	}
//
//   - csv: a header row "items,support,bound" and one row per pattern with
//     the items space separated
//
// # Export
//
// Use [WritePatterns] to write to any io.Writer, or [ExportPatterns] to
// write a file:
//
//	err := io.ExportPatterns(patterns, "out.json", io.FormatJSON)
//
// # Import
//
// [ReadJSON] and [ReadSPMF] parse the json and spmf formats back. Both
// validate every pattern: at least one item, no repeated item, positive
// support.
package io
