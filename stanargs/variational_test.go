package stanargs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVariationalValidation(t *testing.T) {
	assert := assert.New(t)

	cases := []struct {
		why string
		v   Variational
	}{
		{"unknown algorithm", Variational{Algorithm: "pathfinder"}},
		{"uppercase algorithm", Variational{Algorithm: "Meanfield"}},
		{"zero iter", Variational{Iter: ip(0)}},
		{"zero grad_samples", Variational{GradSamples: ip(0)}},
		{"zero elbo_samples", Variational{ElboSamples: ip(0)}},
		{"negative eta", Variational{Eta: fp(-0.1)}},
		{"adapt_iter while disengaged", Variational{AdaptEngaged: bp(false), AdaptIter: ip(5)}},
		{"zero adapt_iter while engaged", Variational{AdaptIter: ip(0)}},
		{"tol_rel_obj below one", Variational{TolRelObj: fp(0.5)}},
		{"zero eval_elbo", Variational{EvalElbo: ip(0)}},
		{"zero output_samples", Variational{OutputSamples: ip(0)}},
	}

	for _, c := range cases {
		vm, err := c.v.validate(0)
		assert.Nil(vm, c.why)
		assert.Error(err, c.why)
		assert.True(IsConfigError(err), c.why)
	}

	// Disengaged adaptation with an explicit zero iteration count is the
	// one legal way to combine the two options
	vm, err := Variational{AdaptEngaged: bp(false), AdaptIter: ip(0)}.validate(0)
	assert.NoError(err)
	assert.Equal(MethodVariational, vm.Kind())

	_, err = Variational{Eta: fp(0.0)}.validate(0)
	assert.NoError(err)
	_, err = Variational{TolRelObj: fp(1.0)}.validate(0)
	assert.NoError(err)
}

func TestVariationalAdaptClause(t *testing.T) {
	assert := assert.New(t)

	// The adapt clause is always present, in exactly one of two forms
	vm, err := Variational{}.validate(0)
	assert.NoError(err)
	assert.Equal(" method=variational adapt engaged=0", methodTail(vm, 0))

	vm, err = Variational{AdaptIter: ip(25)}.validate(0)
	assert.NoError(err)
	assert.Equal(" method=variational adapt iter=25", methodTail(vm, 0))

	vm, err = Variational{AdaptEngaged: bp(true), AdaptIter: ip(25)}.validate(0)
	assert.NoError(err)
	assert.Equal(" method=variational adapt iter=25", methodTail(vm, 0))

	// Engaged without an iteration count still falls back to engaged=0
	vm, err = Variational{AdaptEngaged: bp(true)}.validate(0)
	assert.NoError(err)
	assert.Equal(" method=variational adapt engaged=0", methodTail(vm, 0))

	vm, err = Variational{AdaptEngaged: bp(false), AdaptIter: ip(0)}.validate(0)
	assert.NoError(err)
	assert.Equal(" method=variational adapt engaged=0", methodTail(vm, 0))
}

func TestVariationalComposeOrder(t *testing.T) {
	assert := assert.New(t)

	v := Variational{
		Algorithm:     "meanfield",
		Iter:          ip(10000),
		GradSamples:   ip(2),
		ElboSamples:   ip(50),
		Eta:           fp(0.1),
		AdaptIter:     ip(30),
		TolRelObj:     fp(2.0),
		EvalElbo:      ip(100),
		OutputSamples: ip(500),
	}
	vm, err := v.validate(0)
	assert.NoError(err)
	assert.Equal(
		" method=variational algorithm=meanfield iter=10000 grad_samples=2"+
			" elbo_samples=50 eta=0.1 adapt iter=30 tol_rel_obj=2 eval_elbo=100"+
			" output_samples=500",
		methodTail(vm, 0),
	)
}
