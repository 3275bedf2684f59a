package summarize

import "fmt"

// Strategy names a summarization algorithm, or defers the choice to the
// token count.
type Strategy string

const (
	StrategyAuto      Strategy = "auto"
	StrategyStuff     Strategy = "stuff"
	StrategyMapReduce Strategy = "map-reduce"
)

// Validate rejects unknown strategy names.
func (s Strategy) Validate() error {
	switch s {
	case StrategyAuto, StrategyStuff, StrategyMapReduce:
		return nil
	default:
		return fmt.Errorf("unknown summarization strategy: %q", s)
	}
}

// Select resolves the algorithm for a request. Explicit modes always win;
// auto picks stuff only while the combined token count is strictly under the
// threshold. Pure function, no side effects.
func Select(mode Strategy, totalTokens, stuffThreshold int) Strategy {
	switch mode {
	case StrategyStuff:
		return StrategyStuff
	case StrategyMapReduce:
		return StrategyMapReduce
	default:
		if totalTokens < stuffThreshold {
			return StrategyStuff
		}
		return StrategyMapReduce
	}
}
