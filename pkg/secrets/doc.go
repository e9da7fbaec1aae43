// Package secrets provides AES-256-GCM encryption with compound key derivation.
//
// An application key and a workspace key are combined with HKDF-SHA256 into
// the data key, so ciphertexts produced for one workspace cannot be opened
// with another workspace key. Both keys are 32 bytes.
//
//	appKey, _ := secrets.GenerateKey()
//	workspaceKey, _ := secrets.GenerateKey()
//
//	token, err := secrets.EncryptString(appKey, workspaceKey, "postgres://user:pass@db/app")
//	plain, err := secrets.DecryptString(appKey, workspaceKey, token)
//
// The configuration loader decrypts values of the form "enc:<token>" with the
// same functions.
package secrets
