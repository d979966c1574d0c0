package config

// Cipher seals and opens the encrypted envelope around user and secret
// configs. The concrete token scheme is deployment specific and lives
// outside this module; the store treats tokens as opaque strings.
type Cipher interface {
	// EncryptMapping seals a config mapping into a token for the given
	// bucket
	EncryptMapping(bucket string, configs map[string]any) (string, error)
	// DecryptMapping opens a token produced by EncryptMapping. It never
	// fails: unknown, corrupt or foreign tokens yield an empty mapping.
	DecryptMapping(bucket string, token string) map[string]any
}
