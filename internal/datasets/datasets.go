// Package datasets holds the built-in sample statistics served when no
// dataset store is configured or a name is not found in it.
package datasets

import (
	"sort"

	"github.com/epeers/frontier/internal/models"
)

const (
	MSFTvsWFC = "msft_vs_wfc"
	TenStocks = "ten_stocks"
)

var builtins = map[string]models.Dataset{
	MSFTvsWFC: {
		Name:         MSFTvsWFC,
		Description:  "Microsoft vs Wells Fargo daily statistics",
		Assets:       []string{"MSFT", "WFC"},
		Volatilities: []float64{0.0148179163612915, 0.0156460042577109},
		Covariance: [][]float64{
			{0, 0.00011389576},
			{0.00011389576, 0},
		},
		ExpectedReturns: []float64{0.00074693549, 0.00062554756},
	},
	TenStocks: {
		Name:        TenStocks,
		Description: "Ten-stock daily statistics",
		Assets:      []string{"S1", "S2", "S3", "S4", "S5", "S6", "S7", "S8", "S9", "S10"},
		Volatilities: []float64{
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
		},
		Covariance: [][]float64{
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
		},
		ExpectedReturns: []float64{
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
		},
	},
}

// Get returns a copy of the named built-in dataset.
func Get(name string) (*models.Dataset, bool) {
	ds, ok := builtins[name]
	if !ok {
		return nil, false
	}
	out := clone(ds)
	return &out, true
}

// Names returns the built-in dataset names in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func clone(ds models.Dataset) models.Dataset {
	out := ds
	out.Source = models.DatasetSourceBuiltin
	out.Assets = append([]string(nil), ds.Assets...)
	out.Volatilities = append([]float64(nil), ds.Volatilities...)
	out.ExpectedReturns = append([]float64(nil), ds.ExpectedReturns...)
	out.Covariance = make([][]float64, len(ds.Covariance))
	for i, row := range ds.Covariance {
		out.Covariance[i] = append([]float64(nil), row...)
	}
	return out
}
