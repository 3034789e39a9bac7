// Package fuzztests holds fuzz harnesses for the document decoder and the
// inference engine. Arbitrary bytes must either be rejected by the decoder
// or checked to completion; neither step may panic or hang.
package fuzztests
