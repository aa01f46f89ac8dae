package infrastructure

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profitgo/internal/domain"
)

func TestReadScenarios_FullRow(t *testing.T) {
	input := "model_name,price,cost,other_cost,shipping_fee,commission_rate,sales_volume,return_quantity,deal_orders,net_deal_orders,ad_deal_price,ad_enabled\n" +
		"X1,100,50,5,10,0.03,100,10,95,85,2,true\n"

	rows, err := ReadScenarios(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NoError(t, rows[0].Err)

	assert.Equal(t, 1, rows[0].Index)
	assert.Equal(t, domain.ScenarioInput{
		ModelName:      "X1",
		Price:          100,
		Cost:           50,
		OtherCost:      5,
		ShippingFee:    10,
		CommissionRate: 0.03,
		SalesVolume:    100,
		ReturnQuantity: 10,
		DealOrders:     95,
		NetDealOrders:  85,
		AdUnitPrice:    2,
		AdEnabled:      true,
	}, rows[0].Scenario)
}

func TestReadScenarios_Defaults(t *testing.T) {
	input := "price,cost,commission_rate\n120,60,5\n"

	rows, err := ReadScenarios(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NoError(t, rows[0].Err)

	s := rows[0].Scenario
	assert.Equal(t, "SKU-1", s.ModelName)
	assert.Equal(t, 0.05, s.CommissionRate)
	assert.Equal(t, DefaultSalesVolume, s.SalesVolume)
	assert.Equal(t, DefaultReturnQuantity, s.ReturnQuantity)
	assert.Equal(t, DefaultDealOrders, s.DealOrders)
	assert.Equal(t, DefaultNetDealOrders, s.NetDealOrders)
	assert.False(t, s.AdEnabled)
	assert.Zero(t, s.AdUnitPrice)
}

func TestReadScenarios_BadRowDoesNotAbort(t *testing.T) {
	input := "Model_Name,Price,Sales_Volume\n" +
		"ok,10,100.0\n" +
		"bad,ten,100\n" +
		"frac,10,2.5\n" +
		"last,20,\n"

	rows, err := ReadScenarios(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.NoError(t, rows[0].Err)
	assert.Equal(t, 100, rows[0].Scenario.SalesVolume)
	assert.ErrorIs(t, rows[1].Err, domain.ErrInvalidInput)
	assert.ErrorIs(t, rows[2].Err, domain.ErrInvalidInput)
	assert.NoError(t, rows[3].Err)
	assert.Equal(t, 4, rows[3].Index)
	assert.Equal(t, 20.0, rows[3].Scenario.Price)
}

func TestReadScenarios_EmptyInput(t *testing.T) {
	_, err := ReadScenarios(strings.NewReader(""))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReadScenarios_HeaderOnly(t *testing.T) {
	rows, err := ReadScenarios(strings.NewReader("model_name,price\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestReadScenarios_OutOfRangeValues(t *testing.T) {
	tests := map[string]string{
		"negative price":        "model_name,price\nA,-10\n",
		"negative cost":         "model_name,price,cost\nA,10,-1\n",
		"negative sales volume": "model_name,price,sales_volume\nA,10,-5\n",
		"negative ad price":     "model_name,price,ad_deal_price\nA,10,-0.5\n",
		"commission of 100":     "model_name,price,commission_rate\nA,10,100\n",
		"commission of 1":       "model_name,price,commission_rate\nA,10,1\n",
		"non-finite price":      "model_name,price\nA,NaN\n",
		"infinite cost":         "model_name,price,cost\nA,10,Inf\n",
	}

	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			rows, err := ReadScenarios(strings.NewReader(input))
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.ErrorIs(t, rows[0].Err, domain.ErrInvalidInput)
		})
	}
}

func TestReadScenarios_PercentCommissionBelowLimit(t *testing.T) {
	rows, err := ReadScenarios(strings.NewReader("model_name,price,commission_rate\nA,10,99\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NoError(t, rows[0].Err)
	assert.InDelta(t, 0.99, rows[0].Scenario.CommissionRate, 1e-9)
}
