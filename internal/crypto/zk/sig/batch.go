package sig

import (
	"context"

	"github.com/smallyu/go-zkecdsa/internal/crypto/curves"
	"golang.org/x/sync/errgroup"
)

// Statement bundles one proof with the public values it must be checked against.
type Statement struct {
	Proof  *Proof
	Digest curves.Scalar
	R      curves.Point
	CQ     curves.Point
}

// VerifyBatch verifies independent statements in parallel, at most limit at
// a time (unbounded when limit <= 0). The result is index-aligned with
// stmts. The only error is the context's.
func VerifyBatch(ctx context.Context, params *Params, stmts []Statement, limit int) ([]bool, error) {
	results := make([]bool, len(stmts))

	eg, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		eg.SetLimit(limit)
	}

	for i := range stmts {
		i := i
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			st := stmts[i]
			results[i] = st.Proof.Verify(params, st.Digest, st.R, st.CQ)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
