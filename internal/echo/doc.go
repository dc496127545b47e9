// Package echo implements fuzzy classification of non-meteorological radar
// echoes (ground clutter, insects, anomalous propagation) on polar scan grids.
//
// The pipeline has three gate-local stages: per-moment membership transfer,
// weight-renormalized fusion, and thresholding with an insufficient-data mask.
// Every stage is a pure function of its inputs; nothing is retained between
// calls and input grids are never mutated.
//
// Misconfiguration (unrecognized moment, negative weight, threshold outside
// [0,1], mismatched grid shapes) fails the whole call before any gate is
// processed. Missing data never fails a call: it propagates through the stages
// and surfaces in the mask.
package echo
