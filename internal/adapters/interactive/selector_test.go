package interactive

import (
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/domain/models"
)

func TestSelectDeployment(t *testing.T) {
	s := NewSelectorAdapter(&config.RuntimeConfig{NonInteractive: true})
	ctx := context.Background()
	one := &models.Deployment{ContractName: "FundMe", Network: "localhost"}

	_, err := s.SelectDeployment(ctx, nil, "pick")
	assert.Error(t, err)

	got, err := s.SelectDeployment(ctx, []*models.Deployment{one}, "pick")
	require.NoError(t, err)
	assert.Same(t, one, got)

	_, err = s.SelectDeployment(ctx, []*models.Deployment{one, {ContractName: "FundMe", Network: "sepolia"}}, "pick")
	assert.ErrorContains(t, err, "2 deployments match")
}

func TestFuzzySearch(t *testing.T) {
	color.NoColor = true
	options := formatDeploymentOptions([]*models.Deployment{
		{ContractName: "FundMe", Network: "localhost", ChainID: 31337, Address: "0x5FbDB2315678afecb367f032d93F642f64180aa3"},
		{ContractName: "Raffle", Network: "sepolia", ChainID: 11155111, Address: "0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512"},
	})
	assert.Equal(t, "FundMe localhost/31337 0x5FbDB2315678afecb367f032d93F642f64180aa3", options[0])

	search := createFuzzySearchFunc(options)
	tests := []struct {
		input string
		want  []bool
	}{
		{"", []bool{true, true}},
		{"sepolia", []bool{false, true}},
		{"fndme", []bool{true, false}},
		{"0x5fbdb", []bool{true, false}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			for i, want := range tt.want {
				assert.Equal(t, want, search(tt.input, i))
			}
		})
	}
}
