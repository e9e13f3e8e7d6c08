package model

// ConstraintConfig overrides a constraint's registry defaults (§4.7).
// Weight is ignored when IsHard is true.
type ConstraintConfig struct {
	Enabled    bool
	IsHard     bool
	Weight     int
	Parameters map[string]any
}

// Param returns Parameters[key], or def if absent.
func (c ConstraintConfig) Param(key string, def any) any {
	if c.Parameters == nil {
		return def
	}
	if v, ok := c.Parameters[key]; ok {
		return v
	}
	return def
}

// ParamInt returns an integer parameter, tolerating int/float64 JSON decode
// shapes the way the teacher's BaseConstraint.GetConfigInt does.
func (c ConstraintConfig) ParamInt(key string, def int) int {
	switch v := c.Param(key, def).(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

// ParamStringSlice returns a []string parameter, or nil if absent/wrong type.
func (c ConstraintConfig) ParamStringSlice(key string) []string {
	v, ok := c.Param(key, nil).([]string)
	if !ok {
		return nil
	}
	return v
}

// ParamBool returns a bool parameter, or def if absent/wrong type.
func (c ConstraintConfig) ParamBool(key string, def bool) bool {
	v, ok := c.Param(key, def).(bool)
	if !ok {
		return def
	}
	return v
}
