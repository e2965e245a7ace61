// Package vault encrypts and decrypts the provider API credential with a
// key derived from the machine secret.
//
// Ciphertexts are written as "v1:" followed by base64(salt | nonce | sealed),
// sealed with AES-256-GCM under HKDF-SHA256(secret, salt). Decrypt also reads
// the OpenSSL "Salted__" envelope produced by crypto-js, which is what the
// Electron build of the app stored.
//
// The key only depends on host identity, so this protects the credential
// against casual reads of the settings file, not against another process
// running as the same user.
package vault
