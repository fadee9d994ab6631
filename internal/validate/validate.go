package validate

import "pragmadb/internal/gencontext"

// Validate runs both passes of §4.D over ctx.Unit and returns every
// diagnostic recorded. Pass 2 still runs even if pass 1 recorded errors,
// so a single invocation reports everything wrong with the unit rather
// than stopping at the first class with a problem; callers check
// Diagnostics.Failed() before proceeding to internal/build.
func Validate(ctx *gencontext.Context, oracle ComparabilityOracle) *Diagnostics {
	if oracle == nil {
		oracle = NewDefaultOracle(nil)
	}
	diags := &Diagnostics{}
	structuralPass(ctx, oracle, diags)
	semanticPass(ctx, diags)
	return diags
}
