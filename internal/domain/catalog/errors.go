package catalog

import "errors"

// Sentinel kinds for catalog errors. These allow errors.Is/As from callers.
var (
	ErrLoadCatalog      = errors.New("load catalog failed")
	ErrInvalidCatalog   = errors.New("invalid catalog")
	ErrInvalidBenchmark = errors.New("invalid benchmark")
)
