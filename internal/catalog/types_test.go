package catalog

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimestampRoundTrip(t *testing.T) {
	ts := Timestamp{time.Date(2026, 3, 14, 9, 26, 53, 0, time.Local)}

	data, err := json.Marshal(ts)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"2026-03-14 09:26:53"` {
		t.Errorf("marshal = %s, want \"2026-03-14 09:26:53\"", data)
	}

	var back Timestamp
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(ts.Time) {
		t.Errorf("round trip = %v, want %v", back, ts)
	}
}

func TestTimestampZeroAndEmpty(t *testing.T) {
	var zero Timestamp
	data, err := json.Marshal(zero)
	if err != nil {
		t.Fatalf("marshal zero: %v", err)
	}
	if string(data) != `""` {
		t.Errorf("zero marshal = %s, want \"\"", data)
	}

	var ts Timestamp
	if err := json.Unmarshal([]byte(`""`), &ts); err != nil {
		t.Fatalf("unmarshal empty: %v", err)
	}
	if !ts.IsZero() {
		t.Errorf("empty string should decode to zero, got %v", ts)
	}
	if err := json.Unmarshal([]byte(`"not-a-time"`), &ts); err == nil {
		t.Error("expected error for malformed timestamp")
	}
}

func TestTemperatureRangeOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b TemperatureRange
		want bool
	}{
		{"disjoint below", TemperatureRange{10, 15}, TemperatureRange{16, 20}, false},
		{"disjoint above", TemperatureRange{21, 25}, TemperatureRange{16, 20}, false},
		{"touching endpoints", TemperatureRange{10, 16}, TemperatureRange{16, 20}, true},
		{"contained", TemperatureRange{12, 14}, TemperatureRange{10, 20}, true},
		{"identical", TemperatureRange{10, 20}, TemperatureRange{10, 20}, true},
		{"partial", TemperatureRange{15, 22}, TemperatureRange{20, 30}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("%v overlaps %v = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("overlap is not symmetric for %v and %v", tt.a, tt.b)
			}
		})
	}
}

func TestCatalogWireKeys(t *testing.T) {
	data, err := json.Marshal(NewCatalog())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"devicesList", "servicesList", "greenhousesList", "zonesList", "usersList", "lastUpdate"} {
		if _, ok := m[key]; !ok {
			t.Errorf("missing wire key %q", key)
		}
	}
	if string(m["devicesList"]) != "[]" {
		t.Errorf("devicesList = %s, want []", m["devicesList"])
	}
}

func TestCatalogDeepCopyIsIndependent(t *testing.T) {
	moisture := 40.0
	orig := NewCatalog()
	orig.Zones = append(orig.Zones, Zone{
		ZoneID:            1,
		MoistureThreshold: &moisture,
		TemperatureRange:  &TemperatureRange{Min: 10, Max: 20},
		Devices:           []DeviceRef{{DeviceID: 7}},
	})
	orig.Greenhouses = append(orig.Greenhouses, Greenhouse{
		GreenhouseID: 1,
		Zones:        []ZoneRef{{ZoneID: 1}},
		Thingspeak:   &ThingspeakInfo{ChannelID: 99},
	})
	orig.Users = append(orig.Users, User{
		UserID:      1,
		Greenhouses: []GreenhouseRef{{GreenhouseID: 1}},
	})

	cpy := orig.DeepCopy()
	*cpy.Zones[0].MoistureThreshold = 99
	cpy.Zones[0].TemperatureRange.Max = 50
	cpy.Zones[0].Devices[0].DeviceID = 8
	cpy.Greenhouses[0].Thingspeak.ChannelID = 1
	cpy.Users[0].Greenhouses[0].GreenhouseID = 2

	if *orig.Zones[0].MoistureThreshold != 40 {
		t.Error("moisture threshold shared between copies")
	}
	if orig.Zones[0].TemperatureRange.Max != 20 {
		t.Error("temperature range shared between copies")
	}
	if orig.Zones[0].Devices[0].DeviceID != 7 {
		t.Error("zone device refs shared between copies")
	}
	if orig.Greenhouses[0].Thingspeak.ChannelID != 99 {
		t.Error("thingspeak info shared between copies")
	}
	if orig.Users[0].Greenhouses[0].GreenhouseID != 1 {
		t.Error("user greenhouse refs shared between copies")
	}
}

func TestNormalizeFillsNilLists(t *testing.T) {
	var c Catalog
	c.Greenhouses = []Greenhouse{{GreenhouseID: 1}}
	c.Zones = []Zone{{ZoneID: 1}}
	c.Users = []User{{UserID: 1}}
	c.normalize()

	if c.Devices == nil || c.Services == nil {
		t.Error("top-level lists still nil after normalize")
	}
	if c.Greenhouses[0].Zones == nil || c.Greenhouses[0].Devices == nil {
		t.Error("greenhouse lists still nil after normalize")
	}
	if c.Zones[0].Devices == nil {
		t.Error("zone device list still nil after normalize")
	}
	if c.Users[0].Greenhouses == nil {
		t.Error("user greenhouse list still nil after normalize")
	}
}
