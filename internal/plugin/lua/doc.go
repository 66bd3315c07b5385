// Package lua runs Lua scripts as editor plugins.
//
// A script is a .lua file placed next to native plugins. Its top-level chunk
// runs when the file is opened; after that the manager drives the optional
// globals on_load, on_unload, on_update(dt) and on_gui like any other plugin:
//
//	local parallax = require("parallax")
//
//	info = { name = "Greeter", version = "1.0.0" }
//
//	function on_load()
//	  parallax.register_menu_item{
//	    path = "Tools/Greeter/Hello",
//	    callback = function() parallax.log("info", "hello") end,
//	  }
//	  return true
//	end
//
// Returning false from on_load fails the load.
//
// The top-level chunk runs before the manager knows the plugin's name,
// including for a file whose name is already loaded. It should only define
// info and the hook functions: no host is attached yet, so
// register_menu_item returns false there, and setup belongs in on_load.
//
// # Sandbox
//
// Scripts get the base, table, string and math libraries. dofile, loadfile
// and load are removed, require only resolves those libraries and the
// parallax module, and print writes to the plugin logger. Every entry into
// the VM is bounded by an execution timeout.
package lua
