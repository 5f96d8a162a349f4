package schema

func intPtr(v int) *int       { return &v }
func boolPtr(v bool) *bool    { return &v }
func strPtr(v string) *string { return &v }

// DefaultOverrides returns the built-in presentation override table. The
// table narrows the raw backend catalog to what the guided workflow shows:
// friendlier names, repositioned or hidden schemas and options, provider
// shortlists and access-mode schemas.
func DefaultOverrides() *Overrides {
	return &Overrides{
		Schemas: map[string]*SchemaOverride{
			"s3": {
				Description: "Amazon S3 Compliant Storage Providers including AWS, CloudFlare, DigitalOcean and many others",
				Position:    intPtr(1),
				Providers: map[string]*ProviderOverride{
					"AWS": {Position: intPtr(1)},
				},
			},
			"azureblob": {Position: intPtr(2)},
			"polybox": {
				Name:        "PolyBox",
				Description: "Online data storage service exclusively for ETH members",
				Position:    intPtr(3),
			},
			"switchDrive": {
				Name:        "SwitchDrive",
				Description: "Cloud storage service for the Swiss university community",
				Position:    intPtr(4),
			},
			"webdav": {
				Name:        "WebDAV",
				Description: "WebDAV compatible services",
				Position:    intPtr(5),
			},
			"openbis": {
				Name:          "openBIS",
				ForceReadOnly: boolPtr(true),
				Position:      intPtr(6),
			},
			"gcs":      {Hide: true},
			"onedrive": {Hide: true},
			"drive":    {UsesIntegration: true},
			"dropbox":  {UsesIntegration: true},
		},
		Options: map[string]map[string]*OptionOverride{
			"s3": {
				"env_auth":               {Hide: boolPtr(true)},
				"location_constraint":    {Hide: boolPtr(true)},
				"acl":                    {Advanced: boolPtr(true)},
				"server_side_encryption": {Advanced: boolPtr(true)},
				"sse_kms_key_id":         {Advanced: boolPtr(true)},
				"storage_class":          {Advanced: boolPtr(true)},
				"access_key_id":          {FriendlyName: "Access Key ID"},
				"secret_access_key":      {FriendlyName: "Secret Access Key (password)"},
				"region":                 {FriendlyName: "Region"},
				"endpoint": {
					FriendlyName: "Endpoint",
					Help:         strPtr("Endpoint for S3 API. You should leave this blank if you entered the region already."),
				},
			},
			"azureblob": {
				"account": {
					FriendlyName: "Account Name",
					Help:         strPtr("Set this to the Azure Storage Account Name in use. Leave blank to use SAS URL or Emulator, otherwise it needs to be set."),
				},
				"client_certificate_path":     {Advanced: boolPtr(true)},
				"client_certificate_password": {Advanced: boolPtr(true)},
				"env_auth":                    {Hide: boolPtr(true)},
				"key":                         {FriendlyName: "Shared Key"},
				"sas_url":                     {Advanced: boolPtr(true)},
				"tenant":                      {FriendlyName: "Tenant ID", Advanced: boolPtr(true)},
				"client_id":                   {FriendlyName: "Client ID", Advanced: boolPtr(true)},
				"client_secret":               {FriendlyName: "Client Secret", Advanced: boolPtr(true)},
			},
			"webdav": {
				"pass": {
					FriendlyName: "Token (or password)",
					Help:         strPtr("This is the token to access the WebDAV service. Mind that providing the user's password directly here won't usually work."),
				},
				"bearer_token": {FriendlyName: "Bearer Token"},
				"url":          {FriendlyName: "URL"},
				"user":         {FriendlyName: "Username"},
				"vendor":       {Advanced: boolPtr(true)},
			},
			"polybox": {
				"bearer_token":         {FriendlyName: "Bearer Token", Advanced: boolPtr(true)},
				"url":                  {FriendlyName: "URL", Help: strPtr(""), Advanced: boolPtr(true)},
				"user":                 {FriendlyName: "Username"},
				"public_link":          {FriendlyName: "Public link", Position: intPtr(1)},
				"vendor":               {Hide: boolPtr(true)},
				"nextcloud_chunk_size": {Hide: boolPtr(true)},
			},
			"switchDrive": {
				"bearer_token":         {FriendlyName: "Bearer Token", Advanced: boolPtr(true)},
				"url":                  {FriendlyName: "URL", Advanced: boolPtr(true)},
				"user":                 {FriendlyName: "Username"},
				"public_link":          {FriendlyName: "Public link", Position: intPtr(1)},
				"vendor":               {Hide: boolPtr(true)},
				"nextcloud_chunk_size": {Hide: boolPtr(true)},
			},
			"drive": {
				"alternate_export":     {Advanced: boolPtr(true)},
				"scope":                {Advanced: boolPtr(true)},
				"service_account_file": {Advanced: boolPtr(true)},
			},
		},
		ProviderOptions: map[string]map[string]map[string]*OptionOverride{
			"polybox": {
				"personal": {
					"pass": {
						FriendlyName: "Token (or password)",
						Help:         strPtr("For secure access to your WebDAV shares, we recommend using an application token instead of your account password. To create one, open the service settings, go to Security, and generate a new application password."),
					},
				},
				"shared": {
					"pass": {
						FriendlyName: "Password",
						Help:         strPtr("If there is a password for the folder, enter that in the password field. Otherwise, leave it blank"),
					},
				},
			},
			"switchDrive": {
				"personal": {
					"pass": {
						FriendlyName: "Token (or password)",
						Help:         strPtr("For secure access to your SwitchDrive WebDAV shares, we recommend using an application token instead of your account password. To create one, open SwitchDrive, go to Settings > Security, and generate a new Application password"),
					},
				},
				"shared": {
					"pass": {
						FriendlyName: "Password",
						Help:         strPtr("If there is a password for the folder, enter that in the password field. Otherwise, leave it blank"),
					},
				},
			},
		},
		SchemaShortlist: []string{"s3", "polybox", "switchDrive", "webdav", "azureblob", "sftp", "openbis"},
		ProviderShortlist: map[string][]string{
			"s3": {"AWS", "GCS", "Switch"},
		},
		AccessModeSchemas: []string{"polybox", "switchDrive"},
		IntegrationKind: map[string]string{
			"drive":   "google",
			"dropbox": "dropbox",
		},
		SourcePathHints: defaultSourceHints(),
	}
}
