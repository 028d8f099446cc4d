package inspection

import "math"

// Magnus-Tetens coefficients.
const (
	magnusA = 17.27
	magnusB = 237.7
)

type DewPointMode string

const (
	DewPointAuto   DewPointMode = "AUTO"
	DewPointManual DewPointMode = "MANUAL"
)

// DewPoint returns the dew point in Celsius rounded to one decimal.
// Temperature is not range-checked; humidity must be in (0, 100].
func DewPoint(temperatureC, relativeHumidityPct float64) (float64, error) {
	if math.IsNaN(temperatureC) || math.IsInf(temperatureC, 0) {
		return 0, invalidf("temperature must be a finite number")
	}
	if err := validateHumidity(relativeHumidityPct); err != nil {
		return 0, err
	}

	alpha := (magnusA*temperatureC)/(magnusB+temperatureC) + math.Log(relativeHumidityPct/100)
	dp := (magnusB * alpha) / (magnusA - alpha)
	if math.IsNaN(dp) || math.IsInf(dp, 0) {
		return 0, invalidf("no dew point for temperature %v and humidity %v", temperatureC, relativeHumidityPct)
	}
	return math.Round(dp*10) / 10, nil
}

func validateHumidity(rh float64) error {
	if math.IsNaN(rh) || rh <= 0 || rh > 100 {
		return invalidf("relative humidity must be in (0, 100], got %v", rh)
	}
	return nil
}

// AreaClimate holds an area's climate readings and tracks whether the dew
// point follows them (AUTO) or was pinned by the technician (MANUAL).
type AreaClimate struct {
	Temperature *float64     `json:"temperature"`
	Humidity    *float64     `json:"humidity"`
	DewPoint    *float64     `json:"dewPoint"`
	Mode        DewPointMode `json:"dewPointMode"`
}

func (c *AreaClimate) mode() DewPointMode {
	if c.Mode == "" {
		return DewPointAuto
	}
	return c.Mode
}

func (c *AreaClimate) SetTemperature(v *float64) error {
	if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
		return invalidf("temperature must be a finite number")
	}
	next := *c
	next.Temperature = cloneFloat(v)
	if err := next.track(); err != nil {
		return err
	}
	*c = next
	return nil
}

func (c *AreaClimate) SetHumidity(v *float64) error {
	if v != nil {
		if err := validateHumidity(*v); err != nil {
			return err
		}
	}
	next := *c
	next.Humidity = cloneFloat(v)
	if err := next.track(); err != nil {
		return err
	}
	*c = next
	return nil
}

// OverrideDewPoint stores the value verbatim. With both readings known the
// value is pinned; otherwise it stays in AUTO and the next complete reading
// pair replaces it.
func (c *AreaClimate) OverrideDewPoint(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return invalidf("dew point must be a finite number")
	}
	c.DewPoint = &v
	if c.Temperature != nil && c.Humidity != nil {
		c.Mode = DewPointManual
	} else {
		c.Mode = DewPointAuto
	}
	return nil
}

func (c *AreaClimate) RevertToAuto() error {
	c.Mode = DewPointAuto
	return c.recompute()
}

func (c *AreaClimate) track() error {
	if c.mode() == DewPointManual {
		return nil
	}
	c.Mode = DewPointAuto
	return c.recompute()
}

func (c *AreaClimate) recompute() error {
	if c.Temperature == nil || c.Humidity == nil {
		c.DewPoint = nil
		return nil
	}
	dp, err := DewPoint(*c.Temperature, *c.Humidity)
	if err != nil {
		return err
	}
	c.DewPoint = &dp
	return nil
}

// OutdoorDewPoint always derives; there is no manual override outdoors.
func OutdoorDewPoint(temperature, humidity *float64) (*float64, error) {
	if temperature == nil || humidity == nil {
		return nil, nil
	}
	dp, err := DewPoint(*temperature, *humidity)
	if err != nil {
		return nil, err
	}
	return &dp, nil
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
