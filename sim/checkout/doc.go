// Package checkout models a retail checkout hall on top of the sim engine.
//
// A PaymentSection generates customer arrivals and routes each customer to
// one of several Stations. A Station serves its FIFO queue one customer at a
// time. A waiting Customer gives up once its patience runs out, unless its
// service starts first; service start cancels the give-up timer, so every
// customer is either served or abandoned, never both.
//
// All run state (simulator, random streams, counters, accumulators,
// identifiers) lives in a Run, so independent runs never interfere.
// SimulateReplications relies on this to execute runs concurrently.
package checkout
