package circuit

// DemoToken is the circuit loaded when no token is given: a four-node ring
// that is kicked off by node 0, and a round-robin node feeding two bass
// notes.
const DemoToken = "4_4_E5_m_1~5_4_E5_m_2~5_5_E5_m_3_4~4_5_E6_m_0~12_5_A2_o_5_6~16_5_A3_m~16_6_B2_m"
