package catalog

import (
	"fmt"
	"strings"
	"time"
)

// TimeLayout is the wire format of every lastUpdate field. It matches the
// format the simulators and the chat front-end already parse.
const TimeLayout = "2006-01-02 15:04:05"

// Timestamp is a time.Time that marshals to the catalog's wire layout.
// The zero value marshals to the empty string.
type Timestamp struct {
	time.Time
}

// Now returns the current time as a Timestamp, truncated to seconds to
// match the wire layout's resolution.
func Now() Timestamp {
	return Timestamp{time.Now().Truncate(time.Second)}
}

// MarshalJSON encodes the timestamp using TimeLayout.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + t.Format(TimeLayout) + `"`), nil
}

// UnmarshalJSON decodes a timestamp from TimeLayout. Empty strings and
// null decode to the zero value so documents written before an entity was
// first stamped still load.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.ParseInLocation(TimeLayout, s, time.Local)
	if err != nil {
		return fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}

// Age returns how long ago the timestamp was, relative to now.
func (t Timestamp) Age(now time.Time) time.Duration {
	return now.Sub(t.Time)
}

// DeviceRef is a back-reference to a device held in an owner's device list.
type DeviceRef struct {
	DeviceID int `json:"deviceID"`
}

// ZoneRef is a back-reference to a zone held in a greenhouse's zone list.
type ZoneRef struct {
	ZoneID int `json:"zoneID"`
}

// GreenhouseRef is a back-reference to a greenhouse held in a user's
// greenhouse list.
type GreenhouseRef struct {
	GreenhouseID int `json:"greenhouseID"`
}

// TemperatureRange is a closed temperature interval in degrees Celsius.
type TemperatureRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Overlaps reports whether two closed intervals intersect.
func (r TemperatureRange) Overlaps(other TemperatureRange) bool {
	return !(r.Max < other.Min || r.Min > other.Max)
}

// Device is a registered sensor or actuator. Ownership (greenhouse or
// zone) is recorded on the owner's side via a DeviceRef.
//
// IP and Port are set only for devices that expose a REST endpoint of
// their own.
type Device struct {
	DeviceID   int       `json:"deviceID"`
	Type       string    `json:"type,omitempty"`
	IP         string    `json:"ip,omitempty"`
	Port       int       `json:"port,omitempty"`
	LastUpdate Timestamp `json:"lastUpdate"`
}

// Service is a registered logic service (control loop, relay, bot). Flat
// list, no ownership.
type Service struct {
	ServiceID  int       `json:"serviceID"`
	Name       string    `json:"serviceName,omitempty"`
	Endpoint   string    `json:"endpoint,omitempty"`
	LastUpdate Timestamp `json:"lastUpdate"`
}

// ThingspeakInfo holds the third-party dashboard channel metadata the
// telemetry relay stores on a greenhouse.
type ThingspeakInfo struct {
	ChannelID       int64  `json:"channelID"`
	ChannelWriteKey string `json:"channelWriteAPIkey"`
	ChannelReadKey  string `json:"channelReadAPIkey"`
}

// Zone is a climate-controlled subdivision of a greenhouse.
//
// TemperatureRange and MoistureThreshold are pointers so validation can
// distinguish an absent field from a zero value.
type Zone struct {
	ZoneID            int               `json:"zoneID"`
	Name              string            `json:"zoneName,omitempty"`
	PlantType         string            `json:"plantType,omitempty"`
	TemperatureRange  *TemperatureRange `json:"temperatureRange,omitempty"`
	MoistureThreshold *float64          `json:"moistureThreshold,omitempty"`
	ThingspeakFieldID int               `json:"thingspeakFieldID,omitempty"`
	Devices           []DeviceRef       `json:"devices"`
	LastUpdate        Timestamp         `json:"lastUpdate"`
}

// Greenhouse groups zones and directly-owned devices. Exactly one user
// references it.
type Greenhouse struct {
	GreenhouseID int             `json:"greenhouseID"`
	Name         string          `json:"greenhouseName,omitempty"`
	Zones        []ZoneRef       `json:"zones"`
	Devices      []DeviceRef     `json:"devices"`
	Thingspeak   *ThingspeakInfo `json:"thingspeakInfo,omitempty"`
	LastUpdate   Timestamp       `json:"lastUpdate"`
}

// User owns greenhouses and is addressed by the chat front-end via ChatID.
type User struct {
	UserID      int             `json:"userID"`
	UserName    string          `json:"userName,omitempty"`
	ChatID      int64           `json:"chatID,omitempty"`
	Greenhouses []GreenhouseRef `json:"greenhouses"`
	LastUpdate  Timestamp       `json:"lastUpdate"`
}

// Catalog is the root document: the five entity lists plus a global
// lastUpdate stamp updated on every successful mutating call.
type Catalog struct {
	Devices     []Device     `json:"devicesList"`
	Services    []Service    `json:"servicesList"`
	Greenhouses []Greenhouse `json:"greenhousesList"`
	Zones       []Zone       `json:"zonesList"`
	Users       []User       `json:"usersList"`
	LastUpdate  Timestamp    `json:"lastUpdate"`
}

// NewCatalog returns an empty catalog with all lists initialised, so the
// document always serialises with the five list keys present.
func NewCatalog() *Catalog {
	return &Catalog{
		Devices:     []Device{},
		Services:    []Service{},
		Greenhouses: []Greenhouse{},
		Zones:       []Zone{},
		Users:       []User{},
	}
}

// normalize replaces nil lists with empty ones. Called after loading a
// document from disk so lists always marshal as [] rather than null.
func (c *Catalog) normalize() {
	if c.Devices == nil {
		c.Devices = []Device{}
	}
	if c.Services == nil {
		c.Services = []Service{}
	}
	if c.Greenhouses == nil {
		c.Greenhouses = []Greenhouse{}
	}
	if c.Zones == nil {
		c.Zones = []Zone{}
	}
	if c.Users == nil {
		c.Users = []User{}
	}
	for i := range c.Greenhouses {
		if c.Greenhouses[i].Zones == nil {
			c.Greenhouses[i].Zones = []ZoneRef{}
		}
		if c.Greenhouses[i].Devices == nil {
			c.Greenhouses[i].Devices = []DeviceRef{}
		}
	}
	for i := range c.Zones {
		if c.Zones[i].Devices == nil {
			c.Zones[i].Devices = []DeviceRef{}
		}
	}
	for i := range c.Users {
		if c.Users[i].Greenhouses == nil {
			c.Users[i].Greenhouses = []GreenhouseRef{}
		}
	}
}

// DeepCopy returns a fully independent copy of the zone.
func (z *Zone) DeepCopy() *Zone {
	if z == nil {
		return nil
	}
	cpy := *z
	if z.TemperatureRange != nil {
		r := *z.TemperatureRange
		cpy.TemperatureRange = &r
	}
	if z.MoistureThreshold != nil {
		m := *z.MoistureThreshold
		cpy.MoistureThreshold = &m
	}
	if z.Devices != nil {
		cpy.Devices = make([]DeviceRef, len(z.Devices))
		copy(cpy.Devices, z.Devices)
	}
	return &cpy
}

// DeepCopy returns a fully independent copy of the greenhouse.
func (g *Greenhouse) DeepCopy() *Greenhouse {
	if g == nil {
		return nil
	}
	cpy := *g
	if g.Zones != nil {
		cpy.Zones = make([]ZoneRef, len(g.Zones))
		copy(cpy.Zones, g.Zones)
	}
	if g.Devices != nil {
		cpy.Devices = make([]DeviceRef, len(g.Devices))
		copy(cpy.Devices, g.Devices)
	}
	if g.Thingspeak != nil {
		ts := *g.Thingspeak
		cpy.Thingspeak = &ts
	}
	return &cpy
}

// DeepCopy returns a fully independent copy of the user.
func (u *User) DeepCopy() *User {
	if u == nil {
		return nil
	}
	cpy := *u
	if u.Greenhouses != nil {
		cpy.Greenhouses = make([]GreenhouseRef, len(u.Greenhouses))
		copy(cpy.Greenhouses, u.Greenhouses)
	}
	return &cpy
}

// DeepCopy returns a fully independent copy of the whole document.
func (c *Catalog) DeepCopy() *Catalog {
	if c == nil {
		return nil
	}
	cpy := &Catalog{
		LastUpdate: c.LastUpdate,
	}
	cpy.Devices = make([]Device, len(c.Devices))
	copy(cpy.Devices, c.Devices) // Device has no reference fields
	cpy.Services = make([]Service, len(c.Services))
	copy(cpy.Services, c.Services)
	cpy.Greenhouses = make([]Greenhouse, 0, len(c.Greenhouses))
	for i := range c.Greenhouses {
		cpy.Greenhouses = append(cpy.Greenhouses, *c.Greenhouses[i].DeepCopy())
	}
	cpy.Zones = make([]Zone, 0, len(c.Zones))
	for i := range c.Zones {
		cpy.Zones = append(cpy.Zones, *c.Zones[i].DeepCopy())
	}
	cpy.Users = make([]User, 0, len(c.Users))
	for i := range c.Users {
		cpy.Users = append(cpy.Users, *c.Users[i].DeepCopy())
	}
	return cpy
}

// findDevice returns a pointer into the devices list, or nil.
func (c *Catalog) findDevice(id int) *Device {
	for i := range c.Devices {
		if c.Devices[i].DeviceID == id {
			return &c.Devices[i]
		}
	}
	return nil
}

// findService returns a pointer into the services list, or nil.
func (c *Catalog) findService(id int) *Service {
	for i := range c.Services {
		if c.Services[i].ServiceID == id {
			return &c.Services[i]
		}
	}
	return nil
}

// findGreenhouse returns a pointer into the greenhouses list, or nil.
func (c *Catalog) findGreenhouse(id int) *Greenhouse {
	for i := range c.Greenhouses {
		if c.Greenhouses[i].GreenhouseID == id {
			return &c.Greenhouses[i]
		}
	}
	return nil
}

// findZone returns a pointer into the zones list, or nil.
func (c *Catalog) findZone(id int) *Zone {
	for i := range c.Zones {
		if c.Zones[i].ZoneID == id {
			return &c.Zones[i]
		}
	}
	return nil
}

// findUser returns a pointer into the users list, or nil.
func (c *Catalog) findUser(id int) *User {
	for i := range c.Users {
		if c.Users[i].UserID == id {
			return &c.Users[i]
		}
	}
	return nil
}

// zonesOfGreenhouse resolves a greenhouse's zone references into the zone
// records themselves. Unknown references are skipped.
func (c *Catalog) zonesOfGreenhouse(greenhouseID int) []Zone {
	gh := c.findGreenhouse(greenhouseID)
	if gh == nil {
		return []Zone{}
	}
	zones := make([]Zone, 0, len(gh.Zones))
	for _, ref := range gh.Zones {
		if z := c.findZone(ref.ZoneID); z != nil {
			zones = append(zones, *z)
		}
	}
	return zones
}
