// Package modelmarketplace registers AI model files as sequentially numbered
// tokens and runs the fixed-price marketplace over them: owners list tokens,
// buyers pay at least the asking price, the seller is credited with the full
// payment and ownership moves in the same atomic step.
//
// Domain and application code depend only on ports; stores (memory, postgres,
// sqlite) and content resolvers are chosen by the composition root.
package modelmarketplace
