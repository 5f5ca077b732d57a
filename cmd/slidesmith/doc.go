// Command slidesmith is the CLI for the slide-generation service. It renders
// deck previews, launches generation jobs, tracks them live over the push
// channel (falling back to polling), and exports finished decks to PPTX.
package main
