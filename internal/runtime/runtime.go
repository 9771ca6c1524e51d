package runtime

// This is the loader that the bundle's module factories run inside of. It is
// plain ES5 so the only modern syntax in the output is whatever the modules
// themselves contain. Every name it introduces at the bundle's top level
// starts with "__esmpack_" and lives inside a function so nothing leaks into
// the global scope of the page.
//
// Each factory is called with the loader's require function. It requires its
// dependencies, which calls their factories depth first, and then returns a
// continuation that runs the module's body. Continuations are queued in the
// order the factories return, so a module's body runs after the bodies of
// everything it imports. A module that is required while its own factory is
// still on the stack (an import cycle) gets back its exports object, which
// already exists but may not have its properties yet.

const Prefix = "__esmpack_"

// Prelude opens the bundle up to the point where the factories are listed
const Prelude = `(function () {
  "use strict";
  var __esmpack_modules = {
`

// Loader closes the factory table and defines the loader functions
const Loader = `  };
  var __esmpack_cache = Object.create(null);
  var __esmpack_queue = [];
  var __esmpack_hasOwn = Object.prototype.hasOwnProperty;

  // Exports are getters without setters so that assigning to an imported
  // binding throws. Properties that already exist are never replaced.
  function __esmpack_define(target, getters) {
    for (var name in getters) {
      if (__esmpack_hasOwn.call(getters, name) && !__esmpack_hasOwn.call(target, name)) {
        Object.defineProperty(target, name, { get: getters[name], enumerable: true });
      }
    }
  }

  function __esmpack_require(id) {
    var exports = __esmpack_cache[id];
    if (exports) return exports;
    if (!__esmpack_hasOwn.call(__esmpack_modules, id)) {
      throw new Error("Module \"" + id + "\" is not part of this bundle");
    }
    exports = __esmpack_cache[id] = Object.create(null);
    if (typeof Symbol === "function" && Symbol.toStringTag) {
      Object.defineProperty(exports, Symbol.toStringTag, { value: "Module" });
    }
    var body = __esmpack_modules[id](__esmpack_require);
    __esmpack_queue.push(function () {
      return body(function (getters) {
        __esmpack_define(exports, getters);
      });
    });
    return exports;
  }
`

const syncLoop = `  while (__esmpack_queue.length) __esmpack_queue.shift()();
})();
`

const asyncLoop = `  (async function () {
    while (__esmpack_queue.length) await __esmpack_queue.shift()();
  })();
})();
`

// Epilogue runs every queued module body. With "async" each body is awaited
// before the next one starts, which is what top-level await needs.
func Epilogue(async bool) string {
	if async {
		return asyncLoop
	}
	return syncLoop
}
