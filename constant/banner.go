package constant

// Banner is the short heading printed above the root command help.
const Banner = `      _ _
  ___| (_)_ __  _ __ ___  ___| |
 / __| | | '_ \| '__/ _ \/ _ \ |
| (__| | | |_) | | |  __/  __/ |
 \___|_|_| .__/|_|  \___|\___|_|
         |_|`
