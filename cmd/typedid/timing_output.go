package main

import (
	"fmt"
	"io"

	"typedid/internal/observ"
	"typedid/internal/pipeline"
)

func printTimings(out io.Writer, timer *observ.Timer) {
	if out == nil || timer == nil {
		return
	}
	if _, err := fmt.Fprint(out, timer.Summary()); err != nil {
		panic(err)
	}
}

func printSessionStats(out io.Writer, st pipeline.Stats) {
	if out == nil {
		return
	}
	_, err := fmt.Fprintf(out, "cache: passes=%d reused=%d extract %d/%d emit %d/%d (hits/misses)\n",
		st.Passes, st.PassHits, st.ExtractHits, st.ExtractMisses, st.EmitHits, st.EmitMisses)
	if err != nil {
		panic(err)
	}
}
