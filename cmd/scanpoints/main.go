// Command scanpoints enumerates (or counts) the integer points of a basic
// set given on the command line as a list of inequalities "c0,c1,...,cd"
// meaning c0 + c1*x1 + ... + cd*xd >= 0.
//
// Example:
//
//	scanpoints -dim 2 -ineq "0,1,0" -ineq "1,-1,0" -ineq "0,0,1" -ineq "1,0,-1"
package main

import (
	"flag"
	"fmt"
	"log"
	"math/big"
	"strconv"
	"strings"

	"github.com/gitrdm/latticescan/internal/reduction"
	"github.com/gitrdm/latticescan/internal/simplex"
	"github.com/gitrdm/latticescan/pkg/latticescan"
)

type ineqFlags []string

func (f *ineqFlags) String() string     { return strings.Join(*f, " | ") }
func (f *ineqFlags) Set(s string) error { *f = append(*f, s); return nil }

func main() {
	dim := flag.Int("dim", 0, "number of variables")
	capFlag := flag.Int64("cap", 0, "stop after this many points (0 means unlimited)")
	countOnly := flag.Bool("count", false, "print only the total count, not each point")
	var ineqs ineqFlags
	flag.Var(&ineqs, "ineq", `inequality "c0,c1,...,cd" meaning c0 + c1*x1 + ... + cd*xd >= 0 (repeatable)`)
	flag.Parse()

	if *dim <= 0 {
		log.Fatal("scanpoints: -dim must be positive")
	}

	bset := latticescan.NewBasicSet(*dim)
	for _, spec := range ineqs {
		fields := strings.Split(spec, ",")
		if len(fields) != *dim+1 {
			log.Fatalf("scanpoints: inequality %q has %d fields, want %d", spec, len(fields), *dim+1)
		}
		coeffs := make([]int64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseInt(strings.TrimSpace(f), 10, 64)
			if err != nil {
				log.Fatalf("scanpoints: invalid coefficient %q: %v", f, err)
			}
			coeffs[i] = v
		}
		bset.AddInequality(coeffs...)
	}

	opts := latticescan.ScanOptions{
		Context: latticescan.NewContext(),
		Factory: simplex.New,
		Reducer: reduction.New(),
	}

	if *countOnly {
		count, err := latticescan.CountBasicSetUpto(bset, big.NewInt(*capFlag), opts)
		if err != nil {
			log.Fatalf("scanpoints: %v", err)
		}
		fmt.Println(count)
		return
	}

	counter := latticescan.NewCounter(big.NewInt(*capFlag))
	cb := latticescan.CallbackFunc(func(sample []*big.Int) (latticescan.Signal, error) {
		fmt.Println(formatPoint(sample))
		return counter.Add(sample)
	})
	if _, err := latticescan.ScanBasicSet(bset, cb, opts); err != nil {
		log.Fatalf("scanpoints: %v", err)
	}
	fmt.Println("total:", counter.Count)
}

func formatPoint(sample []*big.Int) string {
	parts := make([]string, len(sample)-1)
	for i, v := range sample[1:] {
		parts[i] = v.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
