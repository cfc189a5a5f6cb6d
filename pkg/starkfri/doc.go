// Package starkfri provides the public prove/verify surface of a STARK
// proof system: given an algebraic intermediate representation (air.AIR)
// of a computation, Prove produces a LowDegreeProof-backed Proof and
// Verify checks one.
//
// # Quick start
//
//	cfg := starkfri.DefaultConfig()
//	proof, err := starkfri.Prove(cfg, myAIR)
//	if err != nil {
//		log.Fatal(err)
//	}
//	ok, err := starkfri.Verify(cfg, myAIR, proof)
package starkfri
