// Package fuzz implements the structural fuzzer (C6): weighted mutation
// of a literal's default value by variant type, invoked whenever fuzzing
// is enabled process-wide and a literal carries a positive weight.
//
// The constants below are lifted from the probability mix embedded at
// each DFSM_NONUNIFORM_DISTRIBUTION/DFSM_BIASED_COIN_FLIP call site in
// the original dfsm-ast-data-structure.c (dfsm-probabilities.h defines
// only the distribution machinery, not the per-type weights themselves).
package fuzz

const (
	// Signed and unsigned integers share the same four-way mix.
	intSmallP    = 0.3
	intDefaultP  = 0.3
	intBoundaryP = 0.1
	intLargeP    = 0.3

	boolDefaultP = 0.6
	boolFlipP    = 0.4

	doubleSmallP   = 0.3
	doubleDefaultP = 0.3
	doubleLargeP   = 0.4

	// String mutation kinds, chosen when the default value is non-empty.
	strCaseChangeP    = 0.1
	strReplaceP       = 0.2
	strDeleteBlockP   = 0.1
	strOverwriteP     = 0.2
	strCloneBlockP    = 0.1
	strSwapBlocksP    = 0.2
	strAddSeparatorsP = 0.1

	// Empty-default-value string mix.
	strEmptyKeepP     = 0.6
	strEmptyGenerateP = 0.4

	// Independent whitespace padding, applied regardless of mutation kind.
	strWhitespacePadP = 0.2

	objectPathDefaultP  = 0.7
	objectPathAppendedP = 0.3

	signatureDefaultP   = 0.6
	signatureGeneratedP = 0.4

	// Character-class mix used by random string/signature generation.
	charASCIIP          = 0.5
	charValidUnicodeP   = 0.4
	charInvalidUnicodeP = 0.1

	// Recursive signature generation's top-level type-kind mix.
	sigBasicP     = 0.6
	sigVariantP   = 0.1
	sigArrayP     = 0.1
	sigTupleP     = 0.1
	sigDictP      = 0.1
	sigTupleMaxN  = 6 // 0..5 elements inclusive
	sigMaxRecurse = 4 // bounds runaway recursive generation

	// Array element mutation, independently per element, scaled by the
	// element expression's own weight (clamped to a minimum of 1.0).
	arrayDeleteP       = 0.2
	arrayCloneP        = 0.2
	arrayCloneMutateP  = 0.4
	arrayEmptyWholeP   = 0.05

	// Dict entry mutation, independently per entry.
	dictDeleteP        = 0.2
	dictCloneMutateKeyP = 0.6
	dictCloneMutateValP = 0.5
	dictEmptyWholeP    = 0.05

	variantRetypeP = 0.2
)
