package models

import "testing"

func TestResolveInstrument(t *testing.T) {
	cases := []struct {
		channel string
		want    Instrument
	}{
		{channel: "H1:GDS-CALIB_STRAIN", want: InstrumentHanford},
		{channel: "L1:GDS-CALIB_STRAIN", want: InstrumentLivingston},
		{channel: "V1:Hrec_hoft_16384Hz", want: InstrumentVirgo},
		{channel: "G1:DER_DATA_H", want: InstrumentUnknown},
		{channel: "no-site-prefix", want: InstrumentUnknown},
		{channel: "", want: InstrumentUnknown},
	}

	for _, tc := range cases {
		if got := ResolveInstrument(tc.channel); got != tc.want {
			t.Fatalf("ResolveInstrument(%q) = %q, want %q", tc.channel, got, tc.want)
		}
	}
}

func TestLockPolicyFor(t *testing.T) {
	cases := []struct {
		instrument Instrument
		want       LockPolicy
	}{
		{instrument: InstrumentLivingston, want: LockPolicySegment},
		{instrument: InstrumentVirgo, want: LockPolicyFlag},
		{instrument: InstrumentHanford, want: LockPolicyNone},
		{instrument: InstrumentUnknown, want: LockPolicyNone},
	}

	for _, tc := range cases {
		if got := LockPolicyFor(tc.instrument); got != tc.want {
			t.Fatalf("LockPolicyFor(%q) = %v, want %v", tc.instrument, got, tc.want)
		}
	}
}
