package canvas

// WorkgroupSize is the update-texture compute shader's declared
// @workgroup_size(x). Batches handed to Update must be a multiple of
// this.
const WorkgroupSize = 256

// updateTextureWGSL applies a batch of events to the canvas image and
// timestamp map. Each invocation handles exactly one event and
// iterates its own affected pixel set in shader code, since the
// affected-set size varies per shape (1 for Point, up to the full
// canvas for a large Rect or Disc).
const updateTextureWGSL = `
struct Event {
    t_ms: u32,
    shape_tag: u32,
    shape_data: vec4<u32>,
    color: vec3<u32>,
}

struct CanvasSize {
    width: u32,
    height: u32,
}

@group(0) @binding(0) var<storage, read> events: array<Event>;
@group(0) @binding(1) var canvas: texture_storage_2d<rgba8unorm, write>;
@group(0) @binding(2) var<storage, read_write> timestamp_map: array<atomic<u32>>;
@group(0) @binding(3) var<uniform> canvas_size: CanvasSize;

fn apply_pixel(i: i32, j: i32, t_ms: u32, color: vec3<u32>) {
    if (i < 0 || j < 0 || u32(i) >= canvas_size.width || u32(j) >= canvas_size.height) {
        return;
    }
    let idx = u32(j) * canvas_size.width + u32(i);
    let old = atomicMax(&timestamp_map[idx], t_ms);
    if (t_ms >= old) {
        let rgba = vec4<f32>(vec3<f32>(color) / 255.0, 1.0);
        textureStore(canvas, vec2<i32>(i, j), rgba);
    }
}

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
    if (gid.x >= arrayLength(&events)) {
        return;
    }
    let e = events[gid.x];

    if (e.shape_tag == 0u) {
        let x = bitcast<i32>(e.shape_data.x);
        let y = bitcast<i32>(e.shape_data.y);
        apply_pixel(x, y, e.t_ms, e.color);
    } else if (e.shape_tag == 1u) {
        // shape_data already holds texture-space [uLo,uHi) x [vLo,vHi]
        // bounds, packed by marshalEvent; vLo is pre-incremented there
        // to account for the v-axis flip, so vHi is inclusive here.
        let u_lo = bitcast<i32>(e.shape_data.x);
        let v_lo = bitcast<i32>(e.shape_data.y);
        let u_hi = bitcast<i32>(e.shape_data.z);
        let v_hi = bitcast<i32>(e.shape_data.w);
        for (var j: i32 = v_lo; j <= v_hi; j = j + 1) {
            for (var i: i32 = u_lo; i < u_hi; i = i + 1) {
                apply_pixel(i, j, e.t_ms, e.color);
            }
        }
    } else if (e.shape_tag == 2u) {
        let cx = bitcast<i32>(e.shape_data.x);
        let cy = bitcast<i32>(e.shape_data.y);
        let r = bitcast<i32>(e.shape_data.z);
        let r2 = r * r;
        for (var j: i32 = cy - r; j <= cy + r; j = j + 1) {
            for (var i: i32 = cx - r; i <= cx + r; i = i + 1) {
                let di = i - cx;
                let dj = j - cy;
                if (di * di + dj * dj < r2) {
                    apply_pixel(i, j, e.t_ms, e.color);
                }
            }
        }
    }
}
`

// presentVS / presentFS implement the two-triangle-strip presentation
// pipeline: a full-screen-fit quad sampling the canvas image through a
// nearest sampler.
const presentVS = `
struct VertexIn {
    @location(0) position: vec2<f32>,
    @location(1) uv: vec2<f32>,
}

struct VertexOut {
    @builtin(position) position: vec4<f32>,
    @location(0) uv: vec2<f32>,
}

@vertex
fn main(in: VertexIn) -> VertexOut {
    var out: VertexOut;
    out.position = vec4<f32>(in.position, 0.0, 1.0);
    out.uv = in.uv;
    return out;
}
`

const presentFS = `
@group(0) @binding(0) var canvas_tex: texture_2d<f32>;
@group(0) @binding(1) var canvas_sampler: sampler;

@fragment
fn main(@location(0) uv: vec2<f32>) -> @location(0) vec4<f32> {
    return textureSample(canvas_tex, canvas_sampler, uv);
}
`
