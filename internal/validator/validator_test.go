package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexdmiller/sonic-circuit/pkg/codec"
	"github.com/alexdmiller/sonic-circuit/pkg/domain"
)

func decode(t *testing.T, token string) []Finding {
	t.Helper()
	s, err := codec.New(domain.DefaultCellSize).Decode(token)
	require.NoError(t, err)
	return Lint(s)
}

func kinds(findings []Finding) []Kind {
	out := make([]Kind, len(findings))
	for i, f := range findings {
		out[i] = f.Kind
	}
	return out
}

func TestLint_DemoIsClean(t *testing.T) {
	findings := decode(t, "4_4_E5_m_1~5_4_E5_m_2~5_5_E5_m_3_4~4_5_E6_m_0~12_5_A2_o_5_6~16_5_A3_m~16_6_B2_m")
	assert.Empty(t, findings)
}

func TestLint_Findings(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  []Kind
		nodes [][]int
	}{
		{"isolated", "0_0_C4_m_1~1_0_D4_m~5_5_E4_m", []Kind{Isolated}, [][]int{{2}}},
		{"overlap", "0_0_C4_m_1~0_0_D4_m", []Kind{Overlap}, [][]int{{0, 1}}},
		{"self loop", "0_0_C4_m_0", []Kind{SelfLoop}, [][]int{{0}}},
		{"duplicate edge", "0_0_C4_o_1_1~1_0_D4_m", []Kind{DuplicateEdge}, [][]int{{0, 1}}},
		{"runaway", "0_0_C4_m_1_2~1_0_D4_m_0~0_1_E4_m_0", []Kind{Runaway}, [][]int{{0}}},
		{"round robin fan-out is bounded", "0_0_C4_o_1_2~1_0_D4_m_0~0_1_E4_m_0", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings := decode(t, tt.token)
			if tt.want == nil {
				assert.Empty(t, findings)
				return
			}
			assert.Equal(t, tt.want, kinds(findings))
			for i, nodes := range tt.nodes {
				assert.Equal(t, nodes, findings[i].Nodes)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	s, err := codec.New(domain.DefaultCellSize).Decode("0_0_C4_m_0~3_3_D4_m")
	require.NoError(t, err)

	err = Check(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "found 2 problems")
	assert.Contains(t, err.Error(), "self-loop: node 0 is wired to itself")
	assert.Contains(t, err.Error(), "isolated: node 1 has no edges")

	clean, err := codec.New(domain.DefaultCellSize).Decode("0_0_C4_m_1~1_0_D4_m")
	require.NoError(t, err)
	assert.NoError(t, Check(clean))
}
