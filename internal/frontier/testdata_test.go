package frontier_test

import (
	"testing"

	"github.com/epeers/frontier/internal/frontier"
)

// MSFT vs WFC daily statistics.
const (
	o1  = 0.0148179163612915
	o2  = 0.0156460042577109
	cov = 0.00011389576
	r1  = 0.00074693549
	r2  = 0.00062554756
)

var tenVolatility = []float64{
	0.01651612375,
	0.02494045222,
	0.01676328139,
	0.01373353017,
	0.01599824533,
	0.01481791636,
	0.03421804815,
	0.02483268137,
	0.01564600426,
	0.01197595924,
}

var tenCovariance = [][]float64{
	{0, 0.000140203631, 0.000086396286, 0.000079833364, 0.000103346079, 0.000091197689, 0.000123845154, 0.000126246273, 0.000099530540, 0.000067677521},
	{0, 0, 0.000135793623, 0.000130760584, 0.000170832048, 0.000126159095, 0.000213293471, 0.000221281568, 0.000154767539, 0.000098042449},
	{0, 0, 0, 0.000101608813, 0.000086662554, 0.000095832082, 0.000140269147, 0.000156523798, 0.000131737077, 0.000143214807},
	{0, 0, 0, 0, 0.000091763337, 0.000093516874, 0.000131567610, 0.000139403830, 0.000131328467, 0.000088054013},
	{0, 0, 0, 0, 0, 0.000107775720, 0.000134732040, 0.000118864479, 0.000107988527, 0.000074676417},
	{0, 0, 0, 0, 0, 0, 0.000114217126, 0.000133822184, 0.000113895764, 0.000081578374},
	{0, 0, 0, 0, 0, 0, 0, 0.000222685764, 0.000136963603, 0.000097438987},
	{0, 0, 0, 0, 0, 0, 0, 0, 0.000172849564, 0.000118691480},
	{0, 0, 0, 0, 0, 0, 0, 0, 0, 0.000110245131},
	{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
}

var tenReturns = []float64{
	0.000839294,
	0.000897196,
	0.000402819,
	0.000897710,
	0.000878252,
	0.000746935,
	0.002028144,
	0.000814831,
	0.000625548,
	0.000511312,
}

func twoAssetStats(t *testing.T) *frontier.PortfolioStatistics {
	t.Helper()
	stats, err := frontier.NewTwoAssetStatistics(o1, o2, cov, r1, r2, 0)
	if err != nil {
		t.Fatalf("failed to build two-asset statistics: %v", err)
	}
	return stats
}

func tenAssetStats(t *testing.T) *frontier.PortfolioStatistics {
	t.Helper()
	stats, err := frontier.NewPortfolioStatistics(tenVolatility, tenCovariance, tenReturns, 0)
	if err != nil {
		t.Fatalf("failed to build ten-asset statistics: %v", err)
	}
	return stats
}
