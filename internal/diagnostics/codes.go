package diagnostics

// Error code families, grouped by the analysis stage that raises them.
const (
	ErrUndefinedRelation = "E-REF-001"
	ErrUndefinedType     = "E-REF-002"
	ErrUndefinedFunctor  = "E-REF-003"
	ErrUndefinedBranch   = "E-REF-004"
	ErrUndefinedBase     = "E-REF-005"

	ErrAtomArity        = "E-ARITY-001"
	ErrInitializerArity = "E-ARITY-002"
	ErrEquivNotBinary   = "E-ARITY-003"

	ErrKindMismatch       = "E-KIND-001"
	ErrKindMismatchNeg    = "E-KIND-002"
	ErrRedefinedPrimitive = "E-KIND-003"
	ErrSubsetOfCompound   = "E-KIND-004"
	ErrCyclicType         = "E-KIND-005"
	ErrMixedPrimitiveOver = "E-KIND-006"

	ErrDuplicateAttribute = "E-NAME-001"
	ErrDuplicateBranch    = "E-NAME-002"
	ErrNameClash          = "E-NAME-003"

	ErrUngroundedVariable = "E-GROUND-001"
	ErrUngroundedRecord   = "E-GROUND-002"
	ErrUngroundedBranch   = "E-GROUND-003"

	ErrWitnessEscapes    = "E-AGG-001"
	ErrMutualAggregates  = "E-AGG-002"
	ErrUngroundedInject  = "E-AGG-003"

	ErrUnderscoreInHead   = "E-RULE-001"
	ErrCounterMisuse      = "E-RULE-002"
	WarnMultiUnderscore   = "W-RULE-003"
	WarnSingleOccurrence  = "W-RULE-004"
	ErrFactNotConstant    = "E-RULE-005"

	ErrInlineCycle          = "E-INLINE-001"
	ErrInlineIsIO           = "E-INLINE-002"
	ErrInlineNegatedFree    = "E-INLINE-003"
	ErrInlineInAggregate    = "E-INLINE-004"
	ErrInlineNegatedUnnamed = "E-INLINE-005"

	ErrUnstratifiable = "E-STRAT-001"

	ErrFunctorArity      = "E-FUNCTOR-001"
	ErrFunctorNoOverload = "E-FUNCTOR-002"
	ErrFunctorStateless  = "E-FUNCTOR-003"

	ErrInternal = "E-INTERNAL-000"
)
