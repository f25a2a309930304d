// Package scaffold creates the Python project skeleton: the app/ package
// with its fixed set of source files, plus the root-level manifest files
// (.env, .gitignore, requirements.txt).
//
// Two modes exist:
//   - Placeholder (default): source files are created empty, exactly as
//     a fresh project skeleton. The developer fills them in.
//   - Starter (--starter): source files are rendered from text/template
//     starter content (FastAPI app factory, SQLAlchemy session setup,
//     pydantic settings) so the project runs immediately.
//
// In both modes existing files are never overwritten — scaffolding an
// already-populated project is a safe no-op for every file that exists.
package scaffold
