// Package python wraps the Python toolchain (interpreter, venv, pip)
// behind os/exec, following the same shape as a git CLI wrapper.
//
// Design decisions:
//   - The virtual environment is never "activated". Activation is a shell
//     convenience that mutates PATH; a subprocess-driven tool gets identical
//     behavior by invoking the venv's own executables by absolute path
//     (<venv>/bin on Unix, <venv>\Scripts on Windows). This also makes the
//     tool work from any shell on any platform.
//   - pip is always invoked as `<venv python> -m pip` rather than the pip
//     script directly, which is robust against venvs created without the
//     pip launcher scripts.
//   - All subprocess failures are wrapped in model.CLIError with the
//     stderr output included, so the CLI can report what the tool printed.
package python
