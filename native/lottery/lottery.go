// Package lottery implements the weighted-random reward engine. A requester
// pays to open a draw, an external randomness oracle later fulfils it with a
// random value, and the engine deterministically selects exactly one reward
// from the weighted catalog and transfers it to the original requester.
//
// The two halves of a draw are correlated only by the request identifier;
// the engine tolerates an unbounded delay between open and fulfil, including
// a fulfilment that never arrives. A stuck pending draw keeps its payment:
// there is no refund or timeout path.
package lottery
