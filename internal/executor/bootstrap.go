package executor

// directBootstrap runs argv[1] as __main__ in a fresh namespace. An uncaught
// exception prints its traceback and exits 1.
const directBootstrap = `import runpy
import sys
import traceback

path = sys.argv[1]
sys.argv = [path]
try:
    runpy.run_path(path, run_name="__main__")
except SystemExit:
    raise
except Exception:
    traceback.print_exc()
    sys.exit(1)
`

// bridgeBootstrap imports the bridge module named by argv[2], checks that a
// running application is reachable and then runs argv[1] with the module
// bound as powerfactory and pf. Exit 3: import failed. Exit 4: no application.
const bridgeBootstrap = `import importlib
import runpy
import sys
import traceback

path, module = sys.argv[1], sys.argv[2]
sys.argv = [path]
try:
    bridge = importlib.import_module(module)
except ImportError:
    traceback.print_exc()
    sys.exit(3)

try:
    app = bridge.GetApplication()
except Exception:
    traceback.print_exc()
    app = None
if app is None:
    sys.stderr.write("GetApplication() returned no application\n")
    sys.exit(4)

try:
    runpy.run_path(path, init_globals={"powerfactory": bridge, "pf": bridge}, run_name="__main__")
except SystemExit:
    raise
except Exception:
    traceback.print_exc()
    sys.exit(1)
`
