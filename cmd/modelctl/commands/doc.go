// Package commands defines the modelctl CLI, an operator tool that drives the
// marketplace use cases directly against the configured storage.
//
// Commands
//
//   - mint      Register a content URI under an owner
//   - publish   Resolve a model file to a content URI and mint it
//   - list      Put a token up for sale
//   - buy       Purchase a listed token
//   - show      Print owner, content URI and listing of a token
//   - tokens    Page through tokens
//   - count     Print the number of minted tokens
//   - balance   Print proceeds credited to an account
//   - sales     Print the purchase history of a token
//   - serve     Run the HTTP API in the foreground
//
// Configuration comes from the same environment variables (and optional .env)
// as the api and worker processes. With STORAGE_DRIVER=memory every
// invocation starts from an empty ledger.
package commands
