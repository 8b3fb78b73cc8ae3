package resolver

import "strconv"

// Option keys recognised on the command line and forwarded to importers
const (
	OptSize          = "size"
	OptCustomSize    = "custom_size"
	OptCrop          = "crop"
	OptCredit        = "credit"
	OptTitle         = "title"
	OptCaption       = "caption"
	OptAlt           = "alt"
	OptDesc          = "desc"
	OptPostID        = "post_id"
	OptFeaturedImage = "featured_image"
	OptPorcelain     = "porcelain"
)

// resolutionOnly are consumed while selecting URLs and never reach the importer
var resolutionOnly = []string{OptSize, OptCustomSize, OptCrop, OptCredit}

// singleOnly make no sense for batch imports
var singleOnly = []string{OptTitle, OptCaption, OptFeaturedImage}

// Options is the invocation's option mapping. Flags hold "true" or "false".
type Options map[string]string

// Clone returns a shallow copy that can be modified freely
func (o Options) Clone() Options {
	c := make(Options, len(o))
	for k, v := range o {
		c[k] = v
	}
	return c
}

// Get returns the value for key, or "" when absent
func (o Options) Get(key string) string {
	return o[key]
}

// Has reports whether key is present with a non-empty value
func (o Options) Has(key string) bool {
	return o[key] != ""
}

// Flag interprets key as a boolean, returning def when absent or unparsable
func (o Options) Flag(key string, def bool) bool {
	v, ok := o[key]
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// SetFlag stores a boolean flag
func (o Options) SetFlag(key string, value bool) {
	o[key] = strconv.FormatBool(value)
}

// StripResolutionOptions removes the options that only drive URL selection
func StripResolutionOptions(opts Options) Options {
	out := opts.Clone()
	for _, key := range resolutionOnly {
		delete(out, key)
	}
	return out
}

// StripSingleOnlyOptions removes title, caption and featured_image, which a
// multi-photo import cannot apply
func StripSingleOnlyOptions(opts Options) Options {
	out := opts.Clone()
	for _, key := range singleOnly {
		delete(out, key)
	}
	return out
}
