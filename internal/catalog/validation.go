package catalog

// validateMoisture checks a moisture threshold is present and within
// [0, 100]. Every zone carries one; the irrigation loop reads it.
func validateMoisture(threshold *float64) error {
	if threshold == nil {
		return ErrMoistureRequired
	}
	if *threshold < 0 || *threshold > 100 {
		return ErrMoistureOutOfRange
	}
	return nil
}

// validateTemperatureRange checks a range is well-formed and does not
// intersect any sibling zone of the same greenhouse. excludeZoneID is the
// zone being updated, so its own stored range never counts as a sibling.
// Every sibling is checked, not just the first.
func (c *Catalog) validateTemperatureRange(greenhouseID, excludeZoneID int, r *TemperatureRange) error {
	if r == nil {
		return nil
	}
	if r.Min > r.Max {
		return ErrTemperatureRangeInverted
	}
	for _, sibling := range c.zonesOfGreenhouse(greenhouseID) {
		if sibling.ZoneID == excludeZoneID || sibling.TemperatureRange == nil {
			continue
		}
		if r.Overlaps(*sibling.TemperatureRange) {
			return ErrTemperatureOverlap
		}
	}
	return nil
}

// validateZone runs both zone checks for a zone joining or already inside
// the given greenhouse.
func (c *Catalog) validateZone(greenhouseID, excludeZoneID int, r *TemperatureRange, moisture *float64) error {
	if err := c.validateTemperatureRange(greenhouseID, excludeZoneID, r); err != nil {
		return err
	}
	return validateMoisture(moisture)
}
