package fundbook

import "testing"

func TestParsePlanType(t *testing.T) {
	tests := []struct {
		in      string
		want    PlanType
		wantErr bool
	}{
		{in: "OPEN", want: PlanOpen},
		{in: "tfsa", want: PlanTFSA},
		{in: " RRSP ", want: PlanRRSP},
		{in: "RESP", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range tests {
		got, err := ParsePlanType(tc.in)
		if tc.wantErr != (err != nil) {
			t.Errorf("ParsePlanType(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if err == nil && got != tc.want {
			t.Errorf("ParsePlanType(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestTransactionRecord_CompanyRoot(t *testing.T) {
	tests := []struct{ company, want string }{
		{company: "MFC", want: "MFC"},
		{company: "MFC7", want: "MFC"},   // class variant of the same company
		{company: "AGF123", want: "AGF"},
	}
	for _, tc := range tests {
		tr := &TransactionRecord{Company: tc.company}
		if got := tr.CompanyRoot(); got != tc.want {
			t.Errorf("CompanyRoot(%q) = %q, want %q", tc.company, got, tc.want)
		}
	}
}

func TestIsSwitchDescription(t *testing.T) {
	tests := []struct {
		desc string
		want bool
	}{
		{desc: "Switch In from MFC 7789", want: true},
		{desc: "SWITCH OUT TO MFC 3212", want: true},
		{desc: "Transfer In", want: true},
		{desc: "Inter-class conversion", want: true},
		{desc: "Reinvested distribution", want: false},
		{desc: "Management fee rebate", want: false},
	}
	for _, tc := range tests {
		if got := IsSwitchDescription(tc.desc); got != tc.want {
			t.Errorf("IsSwitchDescription(%q) = %v, want %v", tc.desc, got, tc.want)
		}
	}
}

func TestIsFeeDescription(t *testing.T) {
	if !IsFeeDescription("Short-term trading fee") {
		t.Error("fee description not detected")
	}
	if IsFeeDescription("Reinvested distribution") {
		t.Error("distribution misread as a fee")
	}
}

func TestPriceRecord_IsMoneyMarket(t *testing.T) {
	mm := &PriceRecord{Name: "Canadian Money Market Fund"}
	if !mm.IsMoneyMarket() {
		t.Error("money market fund not detected")
	}
	eq := &PriceRecord{Name: "Canadian Monthly Income Fund"}
	if eq.IsMoneyMarket() {
		t.Error("income fund misread as money market")
	}
}

func TestPlanCollection_Len(t *testing.T) {
	c := NewPlanCollection()
	c.AddTrade(PlanOpen, &TransactionRecord{})
	c.AddTrade(PlanTFSA, &TransactionRecord{})
	c.AddPrice(PlanOpen, &PriceRecord{})
	if got := c.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}
}
