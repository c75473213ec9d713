// Package testutil provides testing utilities for vecstore.
//
// This package is intended for use in tests and benchmarks only.
//
// # Random Vector Generation
//
//	rng := testutil.NewRNG(seed)
//	vec := make([]float32, 128)
//	rng.FillUniform(vec)      // uniform [0, 1)
//	units := rng.UnitVectors(100, 128)
//
// # Exact Search (Ground Truth)
//
//	rows := testutil.ExactTopK(distance.MetricCosine, query, vectors, k)
//
// # Blob Store Contract
//
//	testutil.RunBlobStoreContract(t, store, true)
package testutil
