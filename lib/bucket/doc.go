// Package bucket implements bucket identity and the bucket registry. A
// bucket is one tenant's namespace in the store; its id is derived from the
// tenant's public key, so holding the key is holding the bucket.
//
// The package focuses on:
//   - Identity derivation: the bucket id is the hex SHA-1 of the normalized
//     public key, invariant under PEM wrapping and whitespace
//   - Validation: well-formedness of ids (40 characters) and existence of
//     buckets (a sentinel field in the bucket's namespace)
//   - The registry: a reserved namespace with one field per registered
//     bucket, giving a global bucket count and listing
//   - Invitations: time-ordered invitation codes gating bucket creation
//
// Key Components:
//
//   - DeriveID/NormalizeKey/IsValidID: Pure identity functions, no backend
//     involved.
//
//   - Service: Identity and registry operations over a kv.Adapter plus an
//     injected Keys collaborator for structural key checks. Lookups degrade
//     like the adapter does: missing backend means empty results, not
//     errors.
//
//   - Keys: The crypto collaborator interface. The rsakeys subpackage
//     provides the RSA/PEM implementation; deployments with other key
//     schemes plug in their own.
//
//   - Invites: Invitation code management in a reserved namespace. Codes
//     are ULIDs, so listing newest-first is a reverse scan.
//
// Usage:
//
//	svc := bucket.NewService(store, rsakeys.New())
//
//	id, ok := svc.Register(ctx, publicKeyPEM)
//	if ok && svc.Exists(ctx, id) {
//		info := svc.FilesInfo(ctx, id)
//		...
//	}
package bucket
