package portfolio_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/apperrors"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/model"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/portfolio"
)

func xirrPercent(t *testing.T, s string) float64 {
	t.Helper()
	v, err := strconv.ParseFloat(s, 64)
	require.NoError(t, err)
	return v
}

func TestEngine_SolveXIRR(t *testing.T) {
	e := newEngine()

	t.Run("one year ten percent", func(t *testing.T) {
		flows := []portfolio.XIRRFlow{
			{Date: day("2023-01-01"), Amount: dec("-1000")},
			{Date: day("2024-01-01"), Amount: dec("1100")},
		}

		res, err := e.SolveXIRR(flows, portfolio.DefaultXIRRGuess)
		require.NoError(t, err)
		assert.True(t, res.Converged)
		assert.InDelta(t, 10.00, xirrPercent(t, e.XIRRPercent(res)), 0.05)
		assert.Regexp(t, `^\d+\.\d{2}$`, e.XIRRPercent(res))
	})

	t.Run("origin is the earliest flow regardless of order", func(t *testing.T) {
		flows := []portfolio.XIRRFlow{
			{Date: day("2024-01-01"), Amount: dec("1100")},
			{Date: day("2023-01-01"), Amount: dec("-1000")},
		}

		res, err := e.SolveXIRR(flows, portfolio.DefaultXIRRGuess)
		require.NoError(t, err)
		assert.InDelta(t, 0.10, res.Rate, 0.0005)
	})

	t.Run("losing position", func(t *testing.T) {
		flows := []portfolio.XIRRFlow{
			{Date: day("2023-01-01"), Amount: dec("-1000")},
			{Date: day("2024-01-01"), Amount: dec("800")},
		}

		res, err := e.SolveXIRR(flows, portfolio.DefaultXIRRGuess)
		require.NoError(t, err)
		assert.InDelta(t, -20.0, xirrPercent(t, e.XIRRPercent(res)), 0.05)
	})

	t.Run("fewer than two flows", func(t *testing.T) {
		for _, flows := range [][]portfolio.XIRRFlow{
			nil,
			{{Date: day("2023-01-01"), Amount: dec("-1000")}},
		} {
			res, err := e.SolveXIRR(flows, portfolio.DefaultXIRRGuess)
			require.NoError(t, err)
			assert.False(t, res.Converged)
			assert.Equal(t, "0", e.XIRRPercent(res))
		}
	})

	t.Run("no sign change does not converge", func(t *testing.T) {
		flows := []portfolio.XIRRFlow{
			{Date: day("2023-01-01"), Amount: dec("-100")},
			{Date: day("2024-01-01"), Amount: dec("-100")},
		}

		res, err := e.SolveXIRR(flows, portfolio.DefaultXIRRGuess)
		assert.ErrorIs(t, err, apperrors.ErrNonConvergence)
		assert.False(t, res.Converged)
		assert.Zero(t, res.Rate)
		assert.Equal(t, "0", e.XIRRPercent(res))
	})
}

func TestBuildXIRRFlows(t *testing.T) {
	flows := []model.CashFlow{
		usdFlow("d1", "2023-01-01", model.CashFlowDeposit, "1000"),
		usdFlow("w1", "2023-06-01", model.CashFlowWithdrawal, "100"),
		feeFlow("f1", "2023-01-02", "3", model.FeeTypeDeposit, nil),
	}

	out := portfolio.BuildXIRRFlows(flows, dec("1050"), day("2024-01-01"))
	require.Len(t, out, 3)

	assertDecimal(t, "-1000", out[0].Amount, "deposit")
	assertDecimal(t, "100", out[1].Amount, "withdrawal")
	assertDecimal(t, "1050", out[2].Amount, "terminal")
	assert.Equal(t, day("2024-01-01"), out[2].Date)
}
