// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - TextExtractor: Extracts page text from PDF files
//   - PostProcessor: Splits page text into chunks
//   - VectorStore: Namespaced chunk storage and similarity search (local or remote)
//   - EmbeddingService: Generates vector embeddings for the vector store
//   - LLMService: Text generation for customer summaries
//   - CustomerStore: Read access to customers and tickets
//   - Classifier: Chooses the route for a question
//   - PromptStore: Prompt templates
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
