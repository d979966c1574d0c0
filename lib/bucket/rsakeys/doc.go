// Package rsakeys is the default key collaborator for RSA key pairs in PEM
// encoding. It implements the structural checks the bucket service needs
// (does this parse as a public key, which public key belongs to this
// private key) and nothing more; signing and encryption live outside this
// module.
package rsakeys
