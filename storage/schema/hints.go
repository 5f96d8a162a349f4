package schema

// SourceHint describes how to prompt for a schema's source path.
type SourceHint struct {
	Help        string `json:"help"`
	Placeholder string `json:"placeholder"`
	Label       string `json:"label"`
}

const genericHintKey = "generic"

func defaultSourceHints() map[string]*SourceHint {
	return map[string]*SourceHint{
		"s3": {
			Help: "For S3, this is usually your remote bucket name as specified in the cloud service you are using. " +
				"You can also mount a sub-folder by appending it to the bucket name with a slash, e.g. `my-bucket/sub-folder`.",
			Placeholder: "remote-bucket-name/optional-sub-folder(s)",
			Label:       "Source path",
		},
		"polybox": {
			Help:        "Specify a path to a sub folder to connect to. When left blank, the connection will be made to the default (root) folder.",
			Placeholder: "'/' or 'optional-sub-folder(s)/'",
			Label:       "Sub path",
		},
		"switchDrive": {
			Help:        "Specify a path to a sub folder to connect to. When left blank, the connection will be made to the default (root) folder.",
			Placeholder: "'/' or 'optional-sub-folder(s)/'",
			Label:       "Sub path",
		},
		genericHintKey: {
			Help: "You can leave this blank to mount the default root or specify a folder. Depending on the cloud storage " +
				"provider, you should be able to specify stub-folder if you wish.",
			Placeholder: "'/' or 'optional-sub-folder(s)/'",
			Label:       "Source path",
		},
	}
}

// SourcePathHint returns the help, placeholder and label to show when asking
// for a schema's source path, falling back to a generic hint. Access-mode
// schemas skip the mount preamble.
func (r *Resolver) SourcePathHint(targetSchema string) *SourceHint {
	hints := r.overrides.SourcePathHints
	if hints == nil {
		hints = defaultSourceHints()
	}
	hint := hints[targetSchema]
	if hint == nil {
		hint = hints[genericHintKey]
	}
	prefix := ""
	if !r.overrides.hasAccessMode(targetSchema) {
		prefix = "Source path to mount. "
	}
	return &SourceHint{
		Help:        prefix + hint.Help,
		Placeholder: hint.Placeholder,
		Label:       hint.Label,
	}
}
