package config

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Overrides holds caller-supplied options. A nil field keeps the base value.
// The YAML keys match the option names used by embedding pages.
type Overrides struct {
	HeightVh      *float64 `yaml:"heightVh"`
	FontSize      *float64 `yaml:"fontSize"`
	ColumnSpacing *float64 `yaml:"columnSpacing"`
	CharSpacingY  *float64 `yaml:"charSpacingY"`

	MinChars *int     `yaml:"minChars"`
	MaxChars *int     `yaml:"maxChars"`
	MinSpeed *float64 `yaml:"minSpeed"`
	MaxSpeed *float64 `yaml:"maxSpeed"`

	CharSwitchMs     *int     `yaml:"charSwitchMs"`
	HeadBrightChance *float64 `yaml:"headBrightChance"`

	BgColor     *string `yaml:"bgColor"`
	MatrixColor *string `yaml:"matrixColor"`
	HeadColor   *string `yaml:"headColor"`

	BlurPx        *float64 `yaml:"blurPx"`
	ZIndex        *int     `yaml:"zIndex"`
	PointerEvents *string  `yaml:"pointerEvents"`
	DPRCap        *float64 `yaml:"dprCap"`

	AutoPauseOnHidden *bool `yaml:"autoPauseOnHidden"`
	ResizeDebounceMs  *int  `yaml:"resizeDebounceMs"`

	Chars []string `yaml:"chars"`
}

// Apply merges o over base and returns the result. Colour strings that do
// not parse are reported as errors; range checks are left to Validate.
func (o Overrides) Apply(base Options) (Options, error) {
	out := base
	out.Chars = append([]string(nil), base.Chars...)

	setF := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	setI := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	setF(&out.HeightVh, o.HeightVh)
	setF(&out.FontSize, o.FontSize)
	setF(&out.ColumnSpacing, o.ColumnSpacing)
	setF(&out.CharSpacingY, o.CharSpacingY)
	setI(&out.MinChars, o.MinChars)
	setI(&out.MaxChars, o.MaxChars)
	setF(&out.MinSpeed, o.MinSpeed)
	setF(&out.MaxSpeed, o.MaxSpeed)
	setF(&out.HeadBrightChance, o.HeadBrightChance)
	setF(&out.BlurPx, o.BlurPx)
	setI(&out.ZIndex, o.ZIndex)
	setF(&out.DPRCap, o.DPRCap)

	if o.CharSwitchMs != nil {
		out.CharSwitch = time.Duration(*o.CharSwitchMs) * time.Millisecond
	}
	if o.ResizeDebounceMs != nil {
		out.ResizeDebounce = time.Duration(*o.ResizeDebounceMs) * time.Millisecond
	}
	if o.PointerEvents != nil {
		out.PointerEvents = *o.PointerEvents
	}
	if o.AutoPauseOnHidden != nil {
		out.AutoPauseOnHidden = *o.AutoPauseOnHidden
	}
	if o.Chars != nil {
		out.Chars = append([]string(nil), o.Chars...)
	}

	for _, c := range []struct {
		src *string
		dst *color.RGBA
	}{
		{o.BgColor, &out.BgColor},
		{o.MatrixColor, &out.MatrixColor},
		{o.HeadColor, &out.HeadColor},
	} {
		if c.src == nil {
			continue
		}
		v, err := ParseHex(*c.src)
		if err != nil {
			return base, err
		}
		*c.dst = v
	}
	return out, nil
}

// Load reads a YAML overrides file and merges it over Default. A missing
// file is not an error: the defaults are returned as-is.
func Load(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Options{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse merges the YAML overrides in data over Default and validates the
// result.
func Parse(data []byte) (Options, error) {
	var o Overrides
	if err := yaml.Unmarshal(data, &o); err != nil {
		return Options{}, fmt.Errorf("parse config: %w", err)
	}
	opts, err := o.Apply(Default())
	if err != nil {
		return Options{}, err
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}
