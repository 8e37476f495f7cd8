package universe

import (
	"fmt"
	"sync"

	"github.com/palvalidator/core/internal/executor"
	"github.com/palvalidator/core/internal/pal/component"
	"github.com/palvalidator/core/internal/pal/condition"
	"github.com/palvalidator/core/internal/pal/pattern"
)

// componentPool returns the Cartesian product of a mode's allowed
// component types with offsets [0..MaxOffset], per spec.md §4.C stage 1.
func componentPool(mode SearchMode) []component.Descriptor {
	pool := make([]component.Descriptor, 0, len(mode.Components)*int(mode.MaxOffset+1))
	for _, t := range mode.Components {
		for offset := uint8(0); offset <= mode.MaxOffset; offset++ {
			pool = append(pool, component.New(t, offset))
		}
	}
	return pool
}

// conditionPool returns, for every unordered pair {a,b} drawn from pool,
// both a>b and b>a, per spec.md §4.C stage 2. MIXED-style modes drop
// pairs whose two descriptors share a ComponentType, reproducing the
// empirically observed PAL restriction.
func conditionPool(mode SearchMode, pool []component.Descriptor) []condition.Condition {
	conditions := make([]condition.Condition, 0, len(pool)*len(pool))
	for i := range pool {
		for j := range pool {
			if i == j {
				continue
			}
			a, b := pool[i], pool[j]
			if a.Equal(b) {
				continue
			}
			if mode.FilterSameComponentType && a.ComponentType == b.ComponentType {
				continue
			}
			conditions = append(conditions, condition.New(a, condition.GreaterThan, b))
		}
	}
	return conditions
}

// Generator enumerates the complete template family for a SearchMode,
// running one task per pattern length on Exec and merging each task's
// thread-local seen-hash set under a single mutex, per spec.md §4.C's
// parallelization note and §5's "thread-local scratch, merge under a
// mutex" concurrency model.
type Generator struct {
	Mode Mode
	Exec executor.Executor
}

// Mode is an alias kept local to this package so callers write
// universe.Generator{Mode: universe.BasicMode, ...} without stuttering.
type Mode = SearchMode

// Generate returns the deduplicated set of pattern templates the
// configured mode permits, one per distinct canonical hash.
func (g Generator) Generate() []*pattern.Template {
	pool := componentPool(g.Mode)
	conditions := conditionPool(g.Mode, pool)

	lengths := make([]int, 0, g.Mode.MaxLength-g.Mode.MinLength+1)
	for length := g.Mode.MinLength; length <= g.Mode.MaxLength; length++ {
		lengths = append(lengths, length)
	}

	var mu sync.Mutex
	seen := make(map[uint64]bool)
	var results []*pattern.Template

	exec := g.Exec
	if exec == nil {
		exec = executor.NewSingleThreadExecutor()
	}

	executor.ParallelFor(len(lengths), exec, func(i int) {
		length := lengths[i]
		localSeen := make(map[uint64]bool)
		var local []*pattern.Template

		enumerate(conditions, length, g.Mode.MaxConditions, nil, func(combo []condition.Condition) {
			tmpl := pattern.NewTemplate(templateName(g.Mode.Name, length, len(localSeen)))
			for _, c := range combo {
				tmpl.AddCondition(c)
			}
			h := tmpl.Hash()
			if localSeen[h] {
				return
			}
			localSeen[h] = true
			local = append(local, tmpl)
		})

		mu.Lock()
		defer mu.Unlock()
		for _, tmpl := range local {
			h := tmpl.Hash()
			if seen[h] {
				continue
			}
			seen[h] = true
			results = append(results, tmpl)
		}
	})

	return results
}

func templateName(mode Name, length, ordinal int) string {
	return fmt.Sprintf("%s_%d_%d", mode, length, ordinal)
}

// enumerate performs the depth-first walk of stage 3: building every
// conjunction of exactly `length` conditions drawn from pool (without
// repeating an index), rejecting combinations that reference the same
// descriptor pair twice or that are otherwise degenerate, and invoking
// emit once per valid combination.
func enumerate(pool []condition.Condition, length, maxConditions int, prefix []condition.Condition, emit func([]condition.Condition)) {
	if length > maxConditions {
		return
	}
	if len(prefix) == length {
		combo := make([]condition.Condition, len(prefix))
		copy(combo, prefix)
		emit(combo)
		return
	}

	start := 0
	if len(prefix) > 0 {
		start = indexOf(pool, prefix[len(prefix)-1]) + 1
	}

	for i := start; i < len(pool); i++ {
		candidate := pool[i]
		if candidate.Degenerate() {
			continue
		}
		if sharesAnyDescriptorPair(prefix, candidate) {
			continue
		}
		enumerate(pool, length, maxConditions, append(prefix, candidate), emit)
	}
}

func sharesAnyDescriptorPair(prefix []condition.Condition, candidate condition.Condition) bool {
	for _, c := range prefix {
		if c.SharesDescriptorPair(candidate) {
			return true
		}
	}
	return false
}

func indexOf(pool []condition.Condition, c condition.Condition) int {
	for i, p := range pool {
		if p.Equal(c) {
			return i
		}
	}
	return -1
}
