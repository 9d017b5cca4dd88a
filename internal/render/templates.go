package render

// ── Layout ────────────────────────────────────────────────────────────────────

const tmplBase = `
{{define "base"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>{{.Title}} · WMS</title>
<script src="https://cdn.tailwindcss.com"></script>
<link rel="stylesheet" href="https://cdnjs.cloudflare.com/ajax/libs/font-awesome/6.5.1/css/all.min.css">
</head>
<body class="bg-slate-50 text-slate-800 min-h-screen">
{{if .Profile}}
<nav class="bg-white border-b border-slate-200 px-6 py-3 flex items-center gap-4">
  <span class="font-bold text-lg"><i class="fas fa-recycle text-emerald-500 mr-1"></i> WMS</span>
  {{if eq .Profile.Role "admin"}}
  <a href="/admin" class="text-sm {{if eq .Active "admin"}}font-bold{{else}}text-slate-500{{end}}">Dashboard</a>
  <a href="/admin/operations" class="text-sm {{if eq .Active "operations"}}font-bold{{else}}text-slate-500{{end}}">Operations</a>
  <a href="/admin/staff" class="text-sm {{if eq .Active "staff"}}font-bold{{else}}text-slate-500{{end}}">Staff</a>
  <a href="/admin/assignments" class="text-sm {{if eq .Active "assignments"}}font-bold{{else}}text-slate-500{{end}}">Residents</a>
  {{end}}
  <span class="ml-auto text-sm text-slate-500">Hello, <span class="font-bold text-slate-700">{{.Profile.FirstName}}</span></span>
  <form method="post" action="/auth/logout"><button class="text-sm text-slate-400 hover:text-red-500"><i class="fas fa-sign-out-alt"></i> Logout</button></form>
</nav>
{{end}}
<main class="max-w-6xl mx-auto p-6">
{{with .Flash.Error}}<div class="mb-4 p-3 rounded-lg bg-red-100 text-red-700 text-sm font-bold">{{.}}</div>{{end}}
{{with .Flash.Notice}}<div class="mb-4 p-3 rounded-lg bg-emerald-100 text-emerald-700 text-sm font-bold">{{.}}</div>{{end}}
{{template "content" .}}
</main>
<div id="toast" class="hidden fixed bottom-6 right-6 bg-slate-800 text-white text-sm px-4 py-3 rounded-lg shadow-lg"></div>
<script>
(function () {
  var region = document.getElementById("live-region");
  if (!region) return;
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var qs = new URLSearchParams(location.search);
  qs.delete("error"); qs.delete("notice");
  qs.set("page", region.dataset.page);
  function toast(text) {
    var t = document.getElementById("toast");
    t.textContent = text;
    t.classList.remove("hidden");
    setTimeout(function () { t.classList.add("hidden"); }, 5000);
  }
  function connect() {
    var ws = new WebSocket(proto + location.host + "/ws?" + qs.toString());
    ws.onmessage = function (ev) {
      var msg = JSON.parse(ev.data);
      if (msg.type === "refresh" && msg.data && typeof msg.data.html === "string") {
        region.innerHTML = msg.data.html;
      } else if (msg.type === "pickup_assigned") {
        toast("New pickup: " + msg.data.location_name);
      } else if (msg.type === "pickup_requested") {
        toast("Pickup requested by " + msg.data.resident);
      }
    };
    ws.onclose = function () { setTimeout(connect, 3000); };
  }
  connect();
})();
</script>
</body>
</html>{{end}}
`

// ── Entry ─────────────────────────────────────────────────────────────────────

const tmplLogin = `
{{define "content"}}
<div class="max-w-md mx-auto mt-16 bg-white rounded-2xl shadow-sm border border-slate-200 p-8">
  <h1 class="text-2xl font-bold mb-1"><i class="fas fa-recycle text-emerald-500"></i> WMS Portal</h1>
  <p class="text-sm text-slate-400 mb-6">Waste management coordination</p>
  {{if .View.SignUp}}
  <form method="post" action="/auth/signup" class="space-y-3">
    <input name="full_name" placeholder="Full Legal Name" class="w-full border border-slate-200 rounded-lg p-3 text-sm">
    <input name="email" type="email" placeholder="Email" value="{{.View.Email}}" class="w-full border border-slate-200 rounded-lg p-3 text-sm">
    <input name="password" type="password" placeholder="Password (min 6 characters)" class="w-full border border-slate-200 rounded-lg p-3 text-sm">
    <button class="w-full bg-emerald-600 text-white py-3 rounded-lg font-bold">Create Account</button>
  </form>
  <p class="text-center text-sm mt-4"><a href="/" class="text-blue-600">Already registered? Sign in</a></p>
  {{else}}
  <form method="post" action="/auth/login" class="space-y-3">
    <input name="email" type="email" placeholder="Email" value="{{.View.Email}}" class="w-full border border-slate-200 rounded-lg p-3 text-sm">
    <input name="password" type="password" placeholder="Password" class="w-full border border-slate-200 rounded-lg p-3 text-sm">
    <button class="w-full bg-slate-800 text-white py-3 rounded-lg font-bold">Sign In</button>
  </form>
  <p class="text-center text-sm mt-4"><a href="/?mode=signup" class="text-blue-600">New resident? Register</a></p>
  {{end}}
</div>
{{end}}
`

// ── Admin ─────────────────────────────────────────────────────────────────────

const tmplAdmin = `
{{define "content"}}
<div class="flex flex-wrap items-end gap-3 mb-6">
  <form method="get" action="/admin" class="flex gap-2">
    <select name="city" onchange="this.form.submit()" class="bg-white border border-slate-200 text-sm rounded-lg p-2">
      <option value="all">All Cities</option>
      {{range .View.Cities}}<option value="{{.}}" {{if eq . $.View.Filter.City}}selected{{end}}>{{.}}</option>{{end}}
    </select>
    <select name="status" onchange="this.form.submit()" class="bg-white border border-slate-200 text-sm rounded-lg p-2">
      <option value="all" {{if eq .View.Filter.Status "all"}}selected{{end}}>All Statuses</option>
      <option value="critical" {{if eq .View.Filter.Status "critical"}}selected{{end}}>Critical Only</option>
    </select>
  </form>
  <form method="post" action="/admin/simulate" class="ml-auto">
    <button class="bg-white border border-slate-200 text-sm rounded-lg px-3 py-2"><i class="fas fa-sync-alt"></i> Simulate Sensors</button>
  </form>
</div>

<div class="grid md:grid-cols-2 gap-4 mb-6">
  <form method="post" action="/admin/bins" class="bg-white rounded-xl border border-slate-200 p-4 space-y-2">
    <h2 class="font-bold text-sm text-slate-500 uppercase">Deploy Bin</h2>
    <input name="location_name" placeholder="Location name" class="w-full border border-slate-200 rounded p-2 text-sm">
    <input name="city" placeholder="City" class="w-full border border-slate-200 rounded p-2 text-sm">
    <div class="flex gap-2">
      <input name="lat" placeholder="Latitude" class="w-1/2 border border-slate-200 rounded p-2 text-sm">
      <input name="lng" placeholder="Longitude" class="w-1/2 border border-slate-200 rounded p-2 text-sm">
    </div>
    <button class="bg-slate-800 text-white px-3 py-2 rounded text-xs font-bold">Deploy</button>
  </form>
  <form method="post" action="/admin/profiles" class="bg-white rounded-xl border border-slate-200 p-4 space-y-2">
    <h2 class="font-bold text-sm text-slate-500 uppercase">Register Staff / Resident</h2>
    <input name="name" placeholder="Full name" class="w-full border border-slate-200 rounded p-2 text-sm">
    <input name="email" type="email" placeholder="Email" class="w-full border border-slate-200 rounded p-2 text-sm">
    <div class="flex gap-2">
      <select name="role" class="border border-slate-200 rounded p-2 text-sm">
        <option value="driver">Driver</option>
        <option value="admin">Admin</option>
        <option value="user">Resident</option>
      </select>
      <input name="vehicle_info" placeholder="Vehicle (drivers)" class="flex-1 border border-slate-200 rounded p-2 text-sm">
    </div>
    <button class="bg-slate-800 text-white px-3 py-2 rounded text-xs font-bold">Create Profile</button>
  </form>
</div>

<div id="live-region" data-page="admin">{{template "live" .}}</div>
{{end}}

{{define "live"}}
<div class="grid grid-cols-3 gap-4 mb-6">
  <div class="bg-white rounded-xl border border-slate-200 p-4"><p class="text-xs text-slate-400 uppercase font-bold">Total Bins</p><p id="stat-total" class="text-2xl font-bold">{{.View.Metrics.TotalBins}}</p></div>
  <div class="bg-white rounded-xl border border-slate-200 p-4"><p class="text-xs text-slate-400 uppercase font-bold">Critical</p><p id="stat-critical" class="text-2xl font-bold text-red-600">{{.View.Metrics.CriticalBins}}</p></div>
  <div class="bg-white rounded-xl border border-slate-200 p-4"><p class="text-xs text-slate-400 uppercase font-bold">Drivers</p><p id="stat-drivers" class="text-2xl font-bold">{{.View.Metrics.Drivers}}</p></div>
</div>
<a href="/admin/operations" class="inline-flex items-center gap-2 mb-4 text-sm">
  <i class="fas fa-bell {{if .View.Notifications}}text-red-500 animate-pulse{{else}}text-slate-400{{end}}"></i>
  {{if .View.Notifications}}<span id="notificationCount" class="bg-red-600 text-white text-xs font-bold px-2 rounded-full">{{.View.Notifications}}</span>{{end}}
  Operations Center
</a>
<div id="binsGrid" class="grid md:grid-cols-2 lg:grid-cols-3 gap-4">
{{range .View.Cards}}
  <div class="rounded-2xl shadow-sm border p-6 relative overflow-hidden
    {{if eq .Alert "ISSUE"}}border-red-500 ring-2 ring-red-100{{else if eq .Alert "REQUEST"}}border-blue-500 ring-2 ring-blue-100{{else if .Fill.Critical}}border-red-200{{else}}border-slate-200{{end}}
    {{if .Fill.Critical}}bg-red-50{{else}}bg-white{{end}}">
    {{if eq .Alert "ISSUE"}}<div class="absolute top-0 right-0 bg-red-600 text-white text-[10px] font-bold px-3 py-1 rounded-bl-lg"><i class="fas fa-exclamation-triangle mr-1"></i> ISSUE</div>
    {{else if eq .Alert "REQUEST"}}<div class="absolute top-0 right-0 bg-blue-500 text-white text-[10px] font-bold px-3 py-1 rounded-bl-lg"><i class="fas fa-hand-paper mr-1"></i> REQUEST</div>{{end}}
    <div class="flex justify-between items-start mb-4">
      <div>
        <h3 class="font-bold text-slate-700 text-lg">{{.LocationName}}</h3>
        <p class="text-xs text-slate-500 mt-1"><i class="fas fa-map-marker-alt text-slate-400"></i> {{.City}}</p>
        <p class="text-xs text-slate-400 mt-1">{{deref .OwnerName "Unassigned"}}</p>
      </div>
      <form method="post" action="/admin/bins/{{.ID}}/delete" onsubmit="return confirm('Are you sure you want to permanently delete this bin?')">
        <input type="hidden" name="confirm" value="yes">
        <button class="text-slate-300 hover:text-red-500" title="Delete Bin"><i class="fas fa-trash"></i></button>
      </form>
    </div>
    <div class="mb-5">
      <div class="flex justify-between text-xs font-bold mb-2">
        <span class="text-slate-500">Capacity</span>
        <span class="{{if .Fill.Critical}}text-red-600{{else}}text-slate-700{{end}}">{{.FillLevel}}%</span>
      </div>
      <div class="w-full bg-slate-200 rounded-full h-3 overflow-hidden">
        <div class="bg-{{.Fill.Color}}-500 h-full" style="width: {{.FillLevel}}%"></div>
      </div>
      <p class="text-[10px] text-slate-400 mt-1">{{printf "%.2f" .Weight}} kg</p>
    </div>
    <details class="mb-3 text-xs text-slate-500"><summary class="cursor-pointer"><i class="fas fa-map-marked-alt"></i> View Map</summary>
      <iframe loading="lazy" class="w-full h-48 mt-2 border" src="{{.MapURL}}"></iframe>
    </details>
    <form method="post" action="/admin/bins/{{.ID}}/dispatch" class="flex gap-2 pt-4 border-t border-slate-200/60">
      <select name="driver_id" class="bg-white border border-slate-200 text-xs rounded-lg p-2 w-full">
        <option value="">Select Driver...</option>
        {{range $.View.Drivers}}<option value="{{.ID}}">{{.Name}}</option>{{end}}
      </select>
      <button class="bg-slate-800 text-white px-3 py-2 rounded-lg text-xs font-bold"><i class="fas fa-paper-plane"></i></button>
    </form>
  </div>
{{else}}
  <div class="col-span-full text-center text-slate-400 py-10">No bins found matching criteria.</div>
{{end}}
</div>
{{end}}
`

const tmplOperations = `
{{define "content"}}
<h1 class="text-xl font-bold mb-4"><i class="fas fa-bell"></i> Operations Center</h1>
<div id="live-region" data-page="operations">{{template "live" .}}</div>
{{end}}

{{define "live"}}
<div class="grid md:grid-cols-2 gap-6">
  <section>
    <h2 class="font-bold text-sm text-slate-500 uppercase mb-3">Pickup Requests</h2>
    {{range .View.Requests}}
    <div class="bg-white p-4 rounded-lg border border-slate-200 shadow-sm mb-3">
      <div class="flex justify-between items-start mb-2">
        <h5 class="font-bold text-slate-700">{{or .BinLocationName "Unknown Location"}}</h5>
        <span class="text-[10px] bg-blue-100 text-blue-700 px-2 py-0.5 rounded uppercase font-bold">Request</span>
      </div>
      <p class="text-xs text-slate-500 mb-3"><i class="fas fa-clock mr-1"></i> {{fmtTime .CreatedAt}}</p>
      <form method="post" action="/admin/pickups/{{.ID}}/dispatch" class="flex gap-2">
        <select name="driver_id" class="bg-slate-50 border border-slate-200 text-xs rounded p-2 w-full">
          <option value="">Assign Driver...</option>
          {{range $.View.Drivers}}<option value="{{.ID}}">{{.Name}}</option>{{end}}
        </select>
        <button class="bg-green-600 text-white px-3 py-1 rounded text-xs font-bold">Dispatch</button>
      </form>
    </div>
    {{else}}
    <p class="text-slate-400 text-xs text-center italic mt-4">No pending requests.</p>
    {{end}}
  </section>
  <section>
    <h2 class="font-bold text-sm text-slate-500 uppercase mb-3">Driver Reports</h2>
    {{range .View.Issues}}
    <div class="bg-white p-4 rounded-lg border-l-4 border-red-500 shadow-sm relative mb-3">
      <form method="post" action="/admin/pickups/{{.ID}}/resolve" onsubmit="return confirm('Resolve issue?')" class="absolute top-2 right-2">
        <input type="hidden" name="confirm" value="yes">
        <button class="text-slate-300 hover:text-green-500" title="Resolve"><i class="fas fa-check-circle"></i></button>
      </form>
      <h5 class="font-bold text-slate-700 mb-1">{{or .BinLocationName "Unknown Bin"}}</h5>
      <p class="text-xs text-red-600 font-bold">Driver: {{deref .DriverName "Unassigned"}}</p>
      <div class="bg-red-50 p-2 mt-2 rounded text-xs text-slate-700 italic border border-red-100">"{{deref .IssueReport ""}}"</div>
    </div>
    {{else}}
    <p class="text-slate-400 text-xs text-center italic mt-4">No active issues.</p>
    {{end}}
  </section>
</div>
{{end}}
`

const tmplStaff = `
{{define "content"}}
<h1 class="text-xl font-bold mb-4"><i class="fas fa-id-badge"></i> Fleet Staff</h1>
<div id="live-region" data-page="staff">{{template "live" .}}</div>
{{end}}

{{define "live"}}
<table class="w-full bg-white rounded-xl border border-slate-200 text-left">
  <thead><tr class="text-xs text-slate-400 uppercase"><th class="p-4">Name</th><th class="p-4">Vehicle</th><th class="p-4">Status</th></tr></thead>
  <tbody>
  {{range .View.Drivers}}
    <tr class="hover:bg-slate-50">
      <td class="p-4 font-bold text-slate-700">{{or .Name "Unknown"}}</td>
      <td class="p-4 text-sm text-slate-500">{{deref .VehicleInfo "Unassigned"}}</td>
      <td class="p-4 flex items-center gap-2">
        <span class="bg-green-100 text-green-700 px-2 py-1 rounded-full text-xs font-bold">● {{if eq .Status "active"}}On Duty{{else}}{{.Status}}{{end}}</span>
        <form method="post" action="/admin/staff/{{.ID}}/delete" onsubmit="return confirm('Are you sure? This will remove the driver from the system.')">
          <input type="hidden" name="confirm" value="yes">
          <button class="text-slate-400 hover:text-red-500" title="Remove Driver"><i class="fas fa-trash"></i></button>
        </form>
      </td>
    </tr>
  {{else}}
    <tr><td colspan="3" class="p-4 text-center text-slate-400 italic">No drivers found.</td></tr>
  {{end}}
  </tbody>
</table>
{{end}}
`

const tmplAssignments = `
{{define "content"}}
<h1 class="text-xl font-bold mb-4"><i class="fas fa-home"></i> Resident Assignments</h1>
<div id="live-region" data-page="assignments">{{template "live" .}}</div>
{{end}}

{{define "live"}}
<table class="w-full bg-white rounded-xl border border-slate-200 text-left">
  <thead><tr class="text-xs text-slate-400 uppercase"><th class="p-4">Resident</th><th class="p-4">Email</th><th class="p-4">Bins</th><th class="p-4"></th></tr></thead>
  <tbody>
  {{range .View.Residents}}
    <tr class="hover:bg-slate-50 border-b border-slate-50">
      <td class="p-4 font-bold text-slate-700">{{or .Resident.Name "Unknown"}}</td>
      <td class="p-4 text-sm text-slate-500">{{.Resident.Email}}</td>
      <td class="p-4">
        {{if .Bins}}<div class="flex flex-wrap gap-2">
        {{range .Bins}}
          <div class="flex items-center gap-1 bg-blue-50 border border-blue-100 text-blue-700 px-2 py-1 rounded text-xs">
            <i class="fas fa-trash-alt"></i> {{.LocationName}}
            <form method="post" action="/admin/bins/{{.ID}}/unassign" onsubmit="return confirm('Are you sure you want to unlink this bin from the resident?')">
              <input type="hidden" name="confirm" value="yes">
              <button class="ml-1 text-red-400 hover:text-red-600" title="Unlink"><i class="fas fa-times"></i></button>
            </form>
          </div>
        {{end}}
        </div>{{else}}<span class="text-slate-400 italic text-sm">No assets assigned</span>{{end}}
      </td>
      <td class="p-4">
        {{if $.View.Unassigned}}
        {{$resident := .Resident.ID}}
        <form method="post" class="flex justify-end gap-2" onsubmit="this.action='/admin/bins/'+this.bin_id.value+'/assign'">
          <input type="hidden" name="owner_id" value="{{$resident}}">
          <select name="bin_id" class="bg-white border border-slate-300 text-xs rounded p-1.5 w-40">
            <option value="">Select Bin...</option>
            {{range $.View.Unassigned}}<option value="{{.ID}}">{{.LocationName}}</option>{{end}}
          </select>
          <button class="bg-green-600 text-white px-3 py-1.5 rounded text-xs font-bold"><i class="fas fa-plus"></i> Add</button>
        </form>
        {{else}}<div class="text-right text-xs text-slate-400">No available bins</div>{{end}}
      </td>
    </tr>
  {{else}}
    <tr><td colspan="4" class="p-4 text-center text-slate-400 italic">No residents registered.</td></tr>
  {{end}}
  </tbody>
</table>
{{end}}
`

// ── Driver ────────────────────────────────────────────────────────────────────

const tmplDriver = `
{{define "content"}}
<h1 class="text-xl font-bold mb-4">Today's Assignments</h1>
<div id="live-region" data-page="driver">{{template "live" .}}</div>
{{end}}

{{define "live"}}
<div id="driverGrid" class="grid md:grid-cols-2 gap-4">
{{range .View.Jobs}}
  <div class="{{if .Fill.Critical}}bg-red-50 border-l-8 border-red-500{{else}}bg-white border-l-8 border-amber-400{{end}} rounded-xl shadow-sm p-5">
    <div class="flex items-center gap-2 mb-1">
      <span class="{{if .Fill.Critical}}bg-red-100 text-red-700{{else}}bg-slate-100 text-slate-600{{end}} text-[10px] font-bold px-2 py-1 rounded uppercase">{{.Badge}}</span>
      <span class="text-[10px] text-slate-400 font-mono">ID: {{.ID}}</span>
    </div>
    <h3 class="font-bold text-xl text-slate-800">{{.BinLocationName}}</h3>
    <p class="text-sm text-slate-500 mb-3"><i class="fas fa-map-pin mr-1"></i> {{.BinCity}}</p>
    <div class="flex gap-4 mb-5 text-sm">
      <div><span class="block text-[10px] text-slate-400 font-bold uppercase">Fill Level</span><span class="font-bold {{if .Fill.Critical}}text-red-600{{end}}">{{.BinFillLevel}}%</span></div>
      <div><span class="block text-[10px] text-slate-400 font-bold uppercase">Weight</span><span class="font-bold">{{printf "%.2f" .BinWeight}} kg</span></div>
    </div>
    <div class="grid grid-cols-2 gap-3">
      {{if .CanNavigate}}
      <a href="{{.NavigationURL}}" target="_blank" rel="noopener" class="col-span-2 bg-slate-800 text-white py-3 rounded-lg font-bold text-center"><i class="fas fa-location-arrow"></i> Navigate to Bin</a>
      {{else}}
      <span class="col-span-2 bg-slate-200 text-slate-400 py-3 rounded-lg font-bold text-center cursor-not-allowed">GPS Coordinates missing</span>
      {{end}}
      <form method="post" action="/driver/jobs/{{.ID}}/complete" onsubmit="return confirm('Confirm waste collected?')">
        <input type="hidden" name="confirm" value="yes">
        <button class="w-full bg-green-600 text-white py-3 rounded-lg font-bold"><i class="fas fa-check"></i> Complete</button>
      </form>
      <details>
        <summary class="list-none bg-white text-slate-600 border border-slate-200 py-3 rounded-lg font-bold text-center cursor-pointer"><i class="fas fa-triangle-exclamation"></i> Issue</summary>
        <form method="post" action="/driver/jobs/{{.ID}}/report" class="mt-2 space-y-2">
          <textarea name="reason" placeholder="Describe the problem" class="w-full border border-slate-200 rounded p-2 text-sm"></textarea>
          <button class="w-full bg-red-600 text-white py-2 rounded text-xs font-bold">Submit Report</button>
        </form>
      </details>
    </div>
  </div>
{{else}}
  <div class="col-span-full flex flex-col items-center py-12 text-slate-400 bg-white rounded-2xl border border-slate-200">
    <i class="fas fa-check-circle text-4xl mb-3 text-green-200"></i>
    <p>All clear. No active assignments.</p>
  </div>
{{end}}
</div>
{{end}}
`

// ── Resident ──────────────────────────────────────────────────────────────────

const tmplResident = `
{{define "content"}}
<h1 class="text-xl font-bold mb-4">My Bins</h1>
<div id="live-region" data-page="resident">{{template "live" .}}</div>
{{end}}

{{define "live"}}
<p class="text-sm text-slate-500 mb-4">Registered bins: <span id="totalBinsCount" class="font-bold">{{.View.Total}}</span></p>
<div id="userGrid" class="grid md:grid-cols-2 lg:grid-cols-3 gap-4">
{{range .View.Cards}}
  <div class="bg-white rounded-2xl shadow-sm border border-slate-100 p-6 relative overflow-hidden">
    <div class="absolute top-0 left-0 w-full h-1 bg-{{.Fill.Color}}-500"></div>
    <div class="flex justify-between items-start mb-6">
      <div>
        <h3 class="font-bold text-xl text-slate-800">{{.Bin.LocationName}}</h3>
        <p class="text-xs text-slate-400"><i class="fas fa-map-marker-alt mr-1"></i> {{or .Bin.City "Home"}}</p>
      </div>
      <div class="relative w-16 h-16">
        <svg class="w-full h-full transform -rotate-90">
          <circle cx="32" cy="32" r="28" stroke="currentColor" stroke-width="6" fill="transparent" class="text-slate-100" />
          <circle cx="32" cy="32" r="28" stroke="currentColor" stroke-width="6" fill="transparent" class="text-{{.Fill.Color}}-500" stroke-dasharray="{{printf "%.1f" .RingDash}} 175" />
        </svg>
        <span class="absolute inset-0 flex items-center justify-center text-xs font-bold">{{.Bin.FillLevel}}%</span>
      </div>
    </div>
    <div class="flex gap-4 mb-2">
      <div class="flex-1 bg-slate-50 rounded-lg p-2 text-center"><p class="text-[10px] text-slate-400 uppercase font-bold">Weight</p><p class="font-bold">{{printf "%.2f" .Bin.Weight}} kg</p></div>
      <div class="flex-1 bg-slate-50 rounded-lg p-2 text-center"><p class="text-[10px] text-slate-400 uppercase font-bold">Status</p><p class="font-bold text-{{.Fill.Color}}-600">{{.Fill.Label}}</p></div>
    </div>
    {{if eq .Action.Status "scheduled"}}
    <div class="mt-4 bg-blue-50 border border-blue-100 p-3 rounded-lg">
      <p class="text-xs font-bold text-blue-800 uppercase">{{.Action.Detail}}</p>
      <p class="text-sm font-bold text-slate-700">{{.Action.Driver}}</p>
      <p class="text-[10px] text-slate-500">{{.Action.Vehicle}}</p>
    </div>
    {{else if eq .Action.Status "pending"}}
    <div class="mt-4 bg-yellow-50 border border-yellow-100 p-3 rounded-lg">
      <p class="text-xs font-bold text-yellow-800 uppercase">Request Pending</p>
      <p class="text-xs text-slate-500">{{.Action.Detail}}</p>
    </div>
    {{else}}
    <div class="mt-4 p-3 rounded-lg border border-dashed border-slate-300 text-center"><p class="text-xs text-slate-400">{{.Action.Detail}}</p></div>
    {{end}}
    {{if .Action.Enabled}}
    <form method="post" action="/resident/bins/{{.Bin.ID}}/request" onsubmit="return confirm('Request a pickup for this bin?')">
      <input type="hidden" name="confirm" value="yes">
      <button class="w-full mt-4 bg-{{.Fill.Color}}-500 text-white py-2 rounded-lg font-bold text-sm">{{.Action.Label}}</button>
    </form>
    {{else}}
    <button disabled class="w-full mt-4 bg-slate-100 text-slate-400 py-2 rounded-lg font-bold text-xs cursor-not-allowed">{{.Action.Label}}</button>
    {{end}}
  </div>
{{else}}
  <div class="col-span-full text-center py-12 bg-white rounded-xl shadow-sm border border-slate-200">
    <i class="fas fa-home text-4xl text-slate-300 mb-4"></i>
    <h3 class="text-lg font-bold text-slate-600">No bins assigned.</h3>
    <p class="text-sm text-slate-400">Please contact administration to link your home.</p>
  </div>
{{end}}
</div>
{{end}}
`
