// Package harness runs scripted message board scenarios.
//
// A scenario is a YAML file listing requests to send to a fresh engine and
// the outcome each one should have. The harness executes every step through
// the real engine and contract, records a trace, and checks expect clauses
// against what actually came back.
//
// # Scenario Format
//
//	name: two-owners
//	description: "Owner filter returns only the sender's messages"
//	backend: badger          # optional: sqlite (default) | badger
//	steps:
//	  - init: admin
//	  - sender: addr1
//	    add: {topic: lol, message: wut}
//	    expect:
//	      attributes: {message_id: "0", message_owner: addr1}
//	  - sender: addr1
//	    execute: '{"add_message":{"topic":"t","message":"m"}}'
//	  - query: by_addr       # current_id | all | by_addr | by_topic | by_id
//	    address: addr1
//	    expect: {ids: [0, 1]}
//	  - query: by_id
//	    id: 9
//	    expect: {error: NOT_FOUND}
//
// Unknown fields are rejected. A step without an expect clause must
// succeed; a step with expect.error must fail with exactly that code.
//
// # Deterministic Testing
//
// Every run uses an in-memory backend and transaction ids tx-1, tx-2, ...
// Heights restart at 1. The trace therefore serializes to identical bytes
// on every run and can be compared against a golden file.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/two-owners.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, e := range result.Errors {
//	        log.Println(e)
//	    }
//	}
package harness
